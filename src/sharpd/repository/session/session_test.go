package session

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/sharpd/src/sharpd/entity"
	"github.com/uber/sharpd/src/sharpd/internal/errors"
)

func newRepository() Repository {
	return New(tally.NewTestScope("testing", make(map[string]string)))
}

func newSession() *entity.Session {
	return &entity.Session{
		UUID:  uuid.Must(uuid.NewV4()),
		Port:  2000,
		State: entity.StateUnstarted,
	}
}

func TestSetAndGet(t *testing.T) {
	r := newRepository()
	ctx := context.Background()
	s := newSession()

	require.NoError(t, r.Set(ctx, s))

	got, err := r.Get(ctx, s.UUID)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestGetMissing(t *testing.T) {
	r := newRepository()
	id := uuid.Must(uuid.NewV4())

	_, err := r.Get(context.Background(), id)
	gotID, ok := errors.NotFoundUUID(err)
	require.True(t, ok)
	assert.Equal(t, id, gotID)
}

func TestSetNil(t *testing.T) {
	r := newRepository()
	assert.Error(t, r.Set(context.Background(), nil))
}

func TestGetFromContext(t *testing.T) {
	r := newRepository()
	s := newSession()
	require.NoError(t, r.Set(context.Background(), s))

	ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)
	got, err := r.GetFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.UUID, got.UUID)
}

func TestGetFromContextMissingUUID(t *testing.T) {
	r := newRepository()
	_, err := r.GetFromContext(context.Background())
	var nf *errors.NoSessionFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestDelete(t *testing.T) {
	r := newRepository()
	ctx := context.Background()
	s := newSession()
	require.NoError(t, r.Set(ctx, s))

	require.NoError(t, r.Delete(ctx, s.UUID))
	_, err := r.Get(ctx, s.UUID)
	assert.Error(t, err)
}

func TestSessionCountAndGetAll(t *testing.T) {
	r := newRepository()
	ctx := context.Background()

	count, err := r.SessionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, r.Set(ctx, newSession()))
	require.NoError(t, r.Set(ctx, newSession()))

	count, err = r.SessionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
