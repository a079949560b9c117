package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/types"
)

// slotName is the single named slot the note list lives under. Writes
// replace the collection wholesale, mirroring the mobile app's
// AsyncStorage usage.
const slotName = "notes"

// Store is the offline fallback used when the primary store is
// unreachable.
type Store interface {
	SaveAll(ctx context.Context, notes []*types.Note) error
	LoadAll(ctx context.Context) ([]*types.Note, error)
	Clear(ctx context.Context) error
}

type noteSlot struct {
	Slot      string    `gorm:"primaryKey;column:slot"`
	Payload   []byte    `gorm:"column:payload"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (noteSlot) TableName() string {
	return "note_slot"
}

type sqliteStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func New(baseLog *logger.Logger, path string) (Store, error) {
	if path == "" {
		path = "noteable_local.db"
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	if err := db.AutoMigrate(&noteSlot{}); err != nil {
		return nil, fmt.Errorf("migrate local store: %w", err)
	}
	return &sqliteStore{
		db:  db,
		log: baseLog.With("service", "LocalStore"),
	}, nil
}

func (s *sqliteStore) SaveAll(ctx context.Context, notes []*types.Note) error {
	if notes == nil {
		notes = []*types.Note{}
	}
	payload, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("encode local notes: %w", err)
	}
	row := noteSlot{Slot: slotName, Payload: payload, UpdatedAt: time.Now()}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("write local notes: %w", err)
	}
	s.log.Debug("Saved notes to local store", "count", len(notes))
	return nil
}

func (s *sqliteStore) LoadAll(ctx context.Context) ([]*types.Note, error) {
	var row noteSlot
	err := s.db.WithContext(ctx).First(&row, "slot = ?", slotName).Error
	if err == gorm.ErrRecordNotFound {
		return []*types.Note{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read local notes: %w", err)
	}
	var notes []*types.Note
	if err := json.Unmarshal(row.Payload, &notes); err != nil {
		return nil, fmt.Errorf("decode local notes: %w", err)
	}
	return notes, nil
}

func (s *sqliteStore) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Delete(&noteSlot{}, "slot = ?", slotName).Error
}
