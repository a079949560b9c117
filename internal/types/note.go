package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ExtractedInfo is computed once from the note content at creation time
// and never recomputed afterwards.
type ExtractedInfo struct {
	People  []string `json:"people"`
	Topics  []string `json:"topics"`
	Actions []string `json:"actions"`
}

// Reminder is a resolved calendar-worthy instant derived from a temporal
// expression in the note text. Overlapping pattern matches may produce
// several reminders for the same real-world moment.
type Reminder struct {
	Text         string    `json:"text"`
	Date         time.Time `json:"date"`
	OriginalText string    `json:"originalText"`
}

type Note struct {
	ID                 uuid.UUID                         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title              string                            `gorm:"column:title" json:"title"`
	Content            string                            `gorm:"column:content;not null" json:"content"`
	Category           string                            `gorm:"column:category;index" json:"category,omitempty"`
	IsArchived         bool                              `gorm:"column:is_archived;default:false" json:"isArchived"`
	ExtractedInfo      datatypes.JSONType[ExtractedInfo] `gorm:"type:jsonb;column:extracted_info" json:"extractedInfo"`
	Reminders          datatypes.JSONSlice[Reminder]     `gorm:"type:jsonb;column:reminders" json:"reminders"`
	AudioTranscription string                            `gorm:"column:audio_transcription" json:"audioTranscription,omitempty"`
	CreatedAt          time.Time                         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time                         `gorm:"not null;default:now()" json:"updated_at"`
}

func (Note) TableName() string {
	return "note"
}

// Info unwraps the stored extraction result.
func (n *Note) Info() ExtractedInfo {
	return n.ExtractedInfo.Data()
}
