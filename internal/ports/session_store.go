package ports

import (
	"context"

	"zone-matrix-service/internal/domain"
)

// SessionStore keeps serving sessions for the map viewer. Implementations
// evict sessions after the configured idle TTL; a lookup past that point
// returns domain.ErrSessionNotFound.
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Put(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id string) error
}
