package service

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/1abobik1/SecureMsg/internal/domain"
	"github.com/1abobik1/SecureMsg/internal/registry"
)

var (
	ErrMalformedMessage   = errors.New("malformed message: recipient and message are required")
	ErrChannelUnavailable = errors.New("secure channel unavailable: missing key material")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// хранит DH-ключи клиентов
type KeyStore interface {
	SaveKeyPair(ctx context.Context, clientID string, priv, pub *big.Int) error
	SavePublic(ctx context.Context, clientID string, pub *big.Int) error
	GetPublic(ctx context.Context, clientID string) (*big.Int, bool, error)
	GetPrivate(ctx context.Context, clientID string) (*big.Int, bool, error)
}

// хранит парные сессионные секреты
type SecretStore interface {
	Save(ctx context.Context, clientID, peerID string, key []byte) error
	Get(ctx context.Context, clientID, peerID string) (domain.SessionSecret, bool, error)
	Refresh(ctx context.Context, clientID, peerID string) error
}

// журнал переписки для store-and-forward
type MessageStore interface {
	Append(ctx context.Context, env domain.StoredEnvelope) error
	List(ctx context.Context, clientID, peerID string) ([]domain.StoredEnvelope, error)
	ListAll(ctx context.Context, clientID string) ([]domain.StoredEnvelope, error)
}

// реестр живых подключений; relay только читает его
type ConnRegistry interface {
	Lookup(clientID string) (registry.Conn, bool)
}

type service struct {
	keys      KeyStore
	secrets   SecretStore
	messages  MessageStore
	conns     ConnRegistry
	cache     *cache.Cache // локальный кеш сессионных ключей поверх durable-стораджа
	secretTTL time.Duration
}

func NewService(keys KeyStore, secrets SecretStore, messages MessageStore, conns ConnRegistry, secretTTL time.Duration) *service {
	return &service{
		keys:      keys,
		secrets:   secrets,
		messages:  messages,
		conns:     conns,
		cache:     cache.New(secretTTL, time.Minute),
		secretTTL: secretTTL,
	}
}
