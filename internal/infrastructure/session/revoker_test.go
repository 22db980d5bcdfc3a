package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almoxerife-api/internal/infrastructure/session"
)

func TestNoopRevoker(t *testing.T) {
	var r session.NoopRevoker
	require.NoError(t, r.Revoke(context.Background(), "abc", time.Minute))

	revoked, err := r.IsRevoked(context.Background(), "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestNewRedisClient_URLInvalida(t *testing.T) {
	_, err := session.NewRedisClient(context.Background(), "http://no-es-redis")
	assert.Error(t, err)
}
