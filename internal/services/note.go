package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/noteable-backend/internal/clients/calendar"
	"github.com/yungbote/noteable-backend/internal/extract"
	"github.com/yungbote/noteable-backend/internal/localstore"
	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/rag"
	"github.com/yungbote/noteable-backend/internal/repos"
	"github.com/yungbote/noteable-backend/internal/types"
)

// ErrEmptyContent rejects note creation with no text.
var ErrEmptyContent = errors.New("note content is empty")

const (
	// Bounded waits for the primary store; past these the local fallback
	// path takes over.
	noteReadTimeout  = 5 * time.Second
	noteWriteTimeout = 10 * time.Second

	titleMaxLen = 50
)

type CreateNoteInput struct {
	Title              string
	Content            string
	Category           string
	AudioTranscription string
}

type UpdateNoteInput struct {
	Title      *string
	Content    *string
	Category   *string
	IsArchived *bool
}

type NoteService interface {
	Create(ctx context.Context, input CreateNoteInput) (*types.Note, error)
	List(ctx context.Context, filter repos.NoteListFilter) ([]*types.Note, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Note, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateNoteInput) (*types.Note, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string) ([]types.RelevanceResult, error)
}

type noteService struct {
	log       *logger.Logger
	notes     repos.NoteRepo
	local     localstore.Store
	extractor extract.Extractor
	searcher  *rag.Searcher
	calendar  calendar.Client
}

func NewNoteService(
	baseLog *logger.Logger,
	noteRepo repos.NoteRepo,
	local localstore.Store,
	extractor extract.Extractor,
	searcher *rag.Searcher,
	calendarClient calendar.Client,
) NoteService {
	return &noteService{
		log:       baseLog.With("service", "NoteService"),
		notes:     noteRepo,
		local:     local,
		extractor: extractor,
		searcher:  searcher,
		calendar:  calendarClient,
	}
}

// Create runs both extractors over the content exactly once, persists the
// note (locally when the primary store is unreachable), and pushes any
// reminders to the calendar sink. Extraction results are frozen at
// creation time; edits never recompute them.
func (s *noteService) Create(ctx context.Context, input CreateNoteInput) (*types.Note, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	info := s.extractor.ExtractInfo(content)
	reminders := s.extractor.ExtractReminders(content)

	note := &types.Note{
		Title:              input.Title,
		Content:            content,
		Category:           input.Category,
		ExtractedInfo:      datatypes.NewJSONType(info),
		Reminders:          datatypes.JSONSlice[types.Reminder](reminders),
		AudioTranscription: input.AudioTranscription,
	}
	if note.Title == "" {
		note.Title = deriveTitle(content)
	}

	writeCtx, cancel := context.WithTimeout(ctx, noteWriteTimeout)
	defer cancel()
	saved, err := s.notes.Create(writeCtx, nil, note)
	if err != nil {
		s.log.Warn("Primary store unavailable, saving note locally", "error", err)
		saved, err = s.saveLocally(ctx, note)
		if err != nil {
			return nil, err
		}
	}

	if len(reminders) > 0 {
		s.scheduleReminders(ctx, saved)
	}
	return saved, nil
}

func (s *noteService) saveLocally(ctx context.Context, note *types.Note) (*types.Note, error) {
	note.ID = uuid.New()
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now

	existing, err := s.local.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("local fallback load: %w", err)
	}
	updated := append([]*types.Note{note}, existing...)
	if err := s.local.SaveAll(ctx, updated); err != nil {
		return nil, fmt.Errorf("local fallback save: %w", err)
	}
	s.log.Info("Note saved to local store", "note_id", note.ID)
	return note, nil
}

// List reads from the primary store with a bounded wait and falls back to
// the local slot when it is unreachable. A successful primary read also
// drains the local slot back into the primary store.
func (s *noteService) List(ctx context.Context, filter repos.NoteListFilter) ([]*types.Note, error) {
	readCtx, cancel := context.WithTimeout(ctx, noteReadTimeout)
	defer cancel()
	notes, err := s.notes.List(readCtx, nil, filter)
	if err != nil {
		s.log.Warn("Primary store unavailable, loading notes locally", "error", err)
		return s.local.LoadAll(ctx)
	}
	s.syncLocalNotes(ctx)
	return notes, nil
}

// syncLocalNotes pushes offline-saved notes to the primary store one by
// one and clears the slot once everything made it up.
func (s *noteService) syncLocalNotes(ctx context.Context) {
	localNotes, err := s.local.LoadAll(ctx)
	if err != nil || len(localNotes) == 0 {
		return
	}
	s.log.Info("Syncing local notes with primary store", "count", len(localNotes))

	synced := 0
	for _, note := range localNotes {
		writeCtx, cancel := context.WithTimeout(ctx, noteWriteTimeout)
		// The store assigns a fresh id on sync.
		note.ID = uuid.Nil
		_, err := s.notes.Create(writeCtx, nil, note)
		cancel()
		if err != nil {
			s.log.Warn("Failed to sync local note", "error", err)
			return
		}
		synced++
	}
	if synced == len(localNotes) {
		if err := s.local.Clear(ctx); err != nil {
			s.log.Warn("Failed to clear local store after sync", "error", err)
			return
		}
		s.log.Info("Local notes synced and cleared", "count", synced)
	}
}

func (s *noteService) Get(ctx context.Context, id uuid.UUID) (*types.Note, error) {
	readCtx, cancel := context.WithTimeout(ctx, noteReadTimeout)
	defer cancel()
	note, err := s.notes.GetByID(readCtx, nil, id)
	if errors.Is(err, repos.ErrNoteNotFound) {
		return nil, err
	}
	if err != nil {
		s.log.Warn("Primary store unavailable, looking up note locally", "note_id", id, "error", err)
		localNotes, lerr := s.local.LoadAll(ctx)
		if lerr != nil {
			return nil, err
		}
		for _, n := range localNotes {
			if n.ID == id {
				return n, nil
			}
		}
		return nil, repos.ErrNoteNotFound
	}
	return note, nil
}

func (s *noteService) Update(ctx context.Context, id uuid.UUID, input UpdateNoteInput) (*types.Note, error) {
	writeCtx, cancel := context.WithTimeout(ctx, noteWriteTimeout)
	defer cancel()

	current, err := s.notes.GetByID(writeCtx, nil, id)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		current.Title = *input.Title
	}
	if input.Content != nil {
		// Deliberately no re-extraction: extractedInfo and reminders stay
		// as computed at creation time.
		current.Content = *input.Content
	}
	if input.Category != nil {
		current.Category = *input.Category
	}
	if input.IsArchived != nil {
		current.IsArchived = *input.IsArchived
	}
	return s.notes.Update(writeCtx, nil, current)
}

func (s *noteService) Delete(ctx context.Context, id uuid.UUID) error {
	writeCtx, cancel := context.WithTimeout(ctx, noteWriteTimeout)
	defer cancel()
	if err := s.notes.Delete(writeCtx, nil, id); err != nil {
		if errors.Is(err, repos.ErrNoteNotFound) {
			return err
		}
		s.log.Warn("Primary store unavailable, deleting note locally", "note_id", id, "error", err)
		return s.deleteLocally(ctx, id)
	}
	return nil
}

func (s *noteService) deleteLocally(ctx context.Context, id uuid.UUID) error {
	localNotes, err := s.local.LoadAll(ctx)
	if err != nil {
		return err
	}
	kept := make([]*types.Note, 0, len(localNotes))
	for _, n := range localNotes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(localNotes) {
		return repos.ErrNoteNotFound
	}
	return s.local.SaveAll(ctx, kept)
}

// Search ranks the whole corpus against the query with the lexical
// relevance scorer and returns the top results.
func (s *noteService) Search(ctx context.Context, query string) ([]types.RelevanceResult, error) {
	corpus, err := s.List(ctx, repos.NoteListFilter{})
	if err != nil {
		return nil, err
	}
	return s.searcher.Search(query, corpus), nil
}

// scheduleReminders pushes one calendar event per reminder. Calendar
// failures are logged and swallowed; they never fail the save.
func (s *noteService) scheduleReminders(ctx context.Context, note *types.Note) {
	if s.calendar == nil {
		return
	}
	info := note.Info()
	topics := strings.Join(info.Topics, ", ")
	if topics == "" {
		topics = "Note"
	}
	title := topics
	if people := strings.Join(info.People, ", "); people != "" {
		title = fmt.Sprintf("%s with %s", topics, people)
	}

	for _, reminder := range note.Reminders {
		ev := calendar.Event{
			Title:              title,
			StartDate:          reminder.Date,
			EndDate:            reminder.Date.Add(time.Hour),
			Notes:              fmt.Sprintf("From Noteable: %s\n\nOriginal reminder: %s", note.Content, reminder.Text),
			AlarmOffsetMinutes: -30,
		}
		if err := s.calendar.CreateEvent(ctx, ev); err != nil {
			s.log.Warn("Calendar event creation failed", "note_id", note.ID, "error", err)
		}
	}
}

func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleMaxLen {
		return content
	}
	return string(runes[:titleMaxLen]) + "..."
}
