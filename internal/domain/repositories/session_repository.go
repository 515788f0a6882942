package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/gravity-notes/gravity/internal/domain/entities"
)

// SessionRepository defines the interface for recording session data access
type SessionRepository interface {
	// Create persists a session together with its actions
	Create(ctx context.Context, session *entities.Session) error

	// FindByID finds a session by ID, actions included
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Session, error)

	// ListByUser returns all sessions for a user, newest first, actions included
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Session, error)

	// Delete removes a session owned by the given user
	Delete(ctx context.Context, userID, sessionID uuid.UUID) error
}
