package repository

import (
	"context"
	"errors"

	"github.com/fluenta/tutor-be/internal/delivery/http/entity"
)

var ErrSessionNotFound = errors.New("session not found")

type (
	// SessionRepository is a key-value store for session state.
	//
	// Concurrency contract: Save for the same session id must be serialized by
	// the implementation (single writer per session). The gorm implementation
	// satisfies this with per-session keyed locks; the memory implementation
	// only guards the map itself and is restricted to dev/test by
	// configuration.
	SessionRepository interface {
		Save(ctx context.Context, session *entity.Session) error
		Load(ctx context.Context, id string) (*entity.Session, error)
		Delete(ctx context.Context, id string) error
	}
)
