package mapper

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/uber/sharpd/src/sharpd/entity"
	"github.com/uber/sharpd/src/sharpd/internal/errors"
	"github.com/uber/sharpd/src/sharpd/internal/hmacauth"
	"github.com/uber/sharpd/src/sharpd/model"
)

// SessionToModel maps a Session entity to its model equivalent.
func SessionToModel(f *entity.Session) *model.Session {
	return &model.Session{
		UUID:          f.UUID,
		Port:          f.Port,
		Secret:        f.Secret,
		State:         string(f.State),
		SolutionPath:  f.SolutionPath,
		Proc:          f.Proc,
		StdoutLogPath: f.StdoutLogPath,
		StderrLogPath: f.StderrLogPath,
	}
}

// ModelToSession maps a model Session to its entity equivalent.
func ModelToSession(f *model.Session) (*entity.Session, error) {
	return &entity.Session{
		UUID:          f.UUID,
		Port:          f.Port,
		Secret:        f.Secret,
		State:         entity.ServerState(f.State),
		SolutionPath:  f.SolutionPath,
		Proc:          f.Proc,
		StdoutLogPath: f.StdoutLogPath,
		StderrLogPath: f.StderrLogPath,
	}, nil
}

// UUIDToSession initializes a new Session entity with the assigned uuid and secret.
func UUIDToSession(u uuid.UUID, secret hmacauth.Secret) *entity.Session {
	return &entity.Session{
		UUID:   u,
		Secret: secret,
		State:  entity.StateUnstarted,
	}
}

// ContextToSessionUUID extracts the UUID from a context
func ContextToSessionUUID(c context.Context) (uuid.UUID, error) {
	s, ok := c.Value(entity.SessionContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, &errors.NoSessionFoundError{}
	}
	return s, nil
}
