package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/types"
)

// ErrNoteNotFound is surfaced to callers as a user-visible "not found"
// condition, unlike transport failures which trigger the local fallback.
var ErrNoteNotFound = errors.New("note not found")

type NoteListFilter struct {
	Category   string
	Search     string
	IsArchived *bool
}

type NoteRepo interface {
	List(ctx context.Context, tx *gorm.DB, filter NoteListFilter) ([]*types.Note, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Note, error)
	Create(ctx context.Context, tx *gorm.DB, note *types.Note) (*types.Note, error)
	Update(ctx context.Context, tx *gorm.DB, note *types.Note) (*types.Note, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type noteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoteRepo(db *gorm.DB, baseLog *logger.Logger) NoteRepo {
	return &noteRepo{db: db, log: baseLog.With("repo", "NoteRepo")}
}

func (r *noteRepo) List(ctx context.Context, tx *gorm.DB, filter NoteListFilter) ([]*types.Note, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&types.Note{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}
	if filter.IsArchived != nil {
		q = q.Where("is_archived = ?", *filter.IsArchived)
	}
	var notes []*types.Note
	if err := q.Order("updated_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Note, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var note types.Note
	err := transaction.WithContext(ctx).First(&note, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepo) Create(ctx context.Context, tx *gorm.DB, note *types.Note) (*types.Note, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (r *noteRepo) Update(ctx context.Context, tx *gorm.DB, note *types.Note) (*types.Note, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).Model(&types.Note{}).Where("id = ?", note.ID).Updates(note)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNoteNotFound
	}
	return r.GetByID(ctx, transaction, note.ID)
}

func (r *noteRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).Delete(&types.Note{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}
