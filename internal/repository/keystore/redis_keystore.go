package keystore

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

// Хранит DH-ключи клиентов в Redis под префиксом dhkeys:{clientID}.
// Значения — десятичные строки big.Int, TTL на запись общий для обеих половин.
type redisKeyStore struct {
	cli *redis.Client
	ttl time.Duration
}

// addr — адрес redis, ttl — срок жизни ключевой записи клиента.
func NewRedisKeyStore(addr string, ttl time.Duration) *redisKeyStore {
	return &redisKeyStore{
		cli: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

func privKey(clientID string) string { return fmt.Sprintf("dhkeys:%s:priv", clientID) }
func pubKey(clientID string) string  { return fmt.Sprintf("dhkeys:%s:pub", clientID) }

// SaveKeyPair сохраняет обе половины пары клиента.
func (r *redisKeyStore) SaveKeyPair(ctx context.Context, clientID string, priv, pub *big.Int) error {
	if err := r.cli.Set(ctx, privKey(clientID), priv.Text(10), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis save dh priv: %w", err)
	}
	if err := r.cli.Set(ctx, pubKey(clientID), pub.Text(10), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis save dh pub: %w", err)
	}
	return nil
}

// SavePublic сохраняет только публичное значение — для клиентов, которые
// держат приватный скаляр у себя.
func (r *redisKeyStore) SavePublic(ctx context.Context, clientID string, pub *big.Int) error {
	if err := r.cli.Set(ctx, pubKey(clientID), pub.Text(10), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis save dh pub: %w", err)
	}
	return nil
}

func (r *redisKeyStore) GetPublic(ctx context.Context, clientID string) (*big.Int, bool, error) {
	return r.get(ctx, pubKey(clientID))
}

func (r *redisKeyStore) GetPrivate(ctx context.Context, clientID string) (*big.Int, bool, error) {
	return r.get(ctx, privKey(clientID))
}

func (r *redisKeyStore) get(ctx context.Context, key string) (*big.Int, bool, error) {
	s, err := r.cli.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, false, fmt.Errorf("corrupt dh key record %s", key)
	}
	return v, true, nil
}
