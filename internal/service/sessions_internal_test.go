package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1abobik1/SecureMsg/internal/domain"
)

type stubSecretStore struct {
	rec   domain.SessionSecret
	found bool
	err   error
}

func (s *stubSecretStore) Save(context.Context, string, string, []byte) error { return s.err }
func (s *stubSecretStore) Get(context.Context, string, string) (domain.SessionSecret, bool, error) {
	return s.rec, s.found, s.err
}
func (s *stubSecretStore) Refresh(context.Context, string, string) error { return s.err }

func newSessionSvc(secrets SecretStore) *service {
	return NewService(nil, secrets, nil, nil, time.Hour)
}

func TestSessionKey_NotFound(t *testing.T) {
	svc := newSessionSvc(&stubSecretStore{})

	_, err := svc.sessionKey(context.Background(), "alice", "bob")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// Протухшая запись не отдаётся, даже если сторадж её ещё физически хранит.
func TestSessionKey_ExpiredRecordStillPresent(t *testing.T) {
	svc := newSessionSvc(&stubSecretStore{
		rec: domain.SessionSecret{
			Key:       make([]byte, 32),
			CreatedAt: time.Now().Add(-90 * time.Minute),
			TTL:       time.Hour,
		},
		found: true,
	})

	_, err := svc.sessionKey(context.Background(), "alice", "bob")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestSessionKey_DurableHitRepopulatesCache(t *testing.T) {
	store := &stubSecretStore{
		rec: domain.SessionSecret{
			Key:       []byte("0123456789abcdef0123456789abcdef"),
			CreatedAt: time.Now(),
			TTL:       time.Hour,
		},
		found: true,
	}
	svc := newSessionSvc(store)

	key, err := svc.sessionKey(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, store.rec.Key, key)

	// второй запрос идёт из кеша: стораджу можно отказать
	store.found = false
	key, err = svc.sessionKey(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, store.rec.Key, key)
}

func TestPairID_Canonical(t *testing.T) {
	assert.Equal(t, pairID("alice", "bob"), pairID("bob", "alice"))
	assert.NotEqual(t, pairID("alice", "bob"), pairID("alice", "carol"))
}
