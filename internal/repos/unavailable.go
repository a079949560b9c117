package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/noteable-backend/internal/types"
)

// ErrStoreUnavailable stands in for an unreachable primary store; callers
// treat it like any transport failure and take the local fallback path.
var ErrStoreUnavailable = errors.New("primary note store unavailable")

type unavailableNoteRepo struct{}

// NewUnavailableNoteRepo keeps the service wiring intact when Postgres
// never came up; every call fails over to the local store.
func NewUnavailableNoteRepo() NoteRepo {
	return unavailableNoteRepo{}
}

func (unavailableNoteRepo) List(context.Context, *gorm.DB, NoteListFilter) ([]*types.Note, error) {
	return nil, ErrStoreUnavailable
}

func (unavailableNoteRepo) GetByID(context.Context, *gorm.DB, uuid.UUID) (*types.Note, error) {
	return nil, ErrStoreUnavailable
}

func (unavailableNoteRepo) Create(context.Context, *gorm.DB, *types.Note) (*types.Note, error) {
	return nil, ErrStoreUnavailable
}

func (unavailableNoteRepo) Update(context.Context, *gorm.DB, *types.Note) (*types.Note, error) {
	return nil, ErrStoreUnavailable
}

func (unavailableNoteRepo) Delete(context.Context, *gorm.DB, uuid.UUID) error {
	return ErrStoreUnavailable
}
