package repository

import (
	"context"
	"errors"

	"github.com/timmy/siscrap/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultSessionID keys the single dashboard session of this installation.
const DefaultSessionID = "default"

// SessionRepository persists the dashboard session.
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save creates or replaces the session row.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - s: session to persist; an empty ID is set to DefaultSessionID.
//
// Returns:
//   - error: non-nil if the upsert fails.
func (r *SessionRepository) Save(ctx context.Context, s *domain.Session) error {
	if s.ID == "" {
		s.ID = DefaultSessionID
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(s).Error
}

// Load returns the persisted session, or nil when none exists.
func (r *SessionRepository) Load(ctx context.Context) (*domain.Session, error) {
	var s domain.Session
	err := r.db.WithContext(ctx).First(&s, "id = ?", DefaultSessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes the persisted session. Deleting a missing session is not an error.
func (r *SessionRepository) Delete(ctx context.Context) error {
	return r.db.WithContext(ctx).Delete(&domain.Session{}, "id = ?", DefaultSessionID).Error
}
