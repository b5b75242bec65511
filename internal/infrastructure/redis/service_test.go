package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	svc := NewService(mr.Addr(), "")
	require.NotNil(t, svc)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, mr
}

func TestNewServiceWithoutAddress(t *testing.T) {
	assert.Nil(t, NewService("", ""))
}

func TestNewServiceUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	assert.Nil(t, NewService(addr, ""))
}

func TestSetGetDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "session:1", `{"uid":"u"}`, time.Minute))

	got, err := svc.Get(ctx, "session:1")
	require.NoError(t, err)
	assert.Equal(t, `{"uid":"u"}`, got)

	require.NoError(t, svc.Delete(ctx, "session:1"))
	_, err = svc.Get(ctx, "session:1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpiration(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", "v", time.Second))
	mr.FastForward(2 * time.Second)

	_, err := svc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPing(t *testing.T) {
	svc, _ := newTestService(t)
	assert.NoError(t, svc.Ping(context.Background()))
}

func TestCommandErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	svc := &Service{client: client}
	ctx := context.Background()
	boom := errors.New("connection reset")

	mock.ExpectSet("session:1", "v", time.Minute).SetErr(boom)
	assert.ErrorIs(t, svc.Set(ctx, "session:1", "v", time.Minute), boom)

	mock.ExpectGet("session:1").SetErr(boom)
	_, err := svc.Get(ctx, "session:1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)

	mock.ExpectGet("session:2").RedisNil()
	_, err = svc.Get(ctx, "session:2")
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectDel("session:1").SetErr(boom)
	assert.ErrorIs(t, svc.Delete(ctx, "session:1"), boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}
