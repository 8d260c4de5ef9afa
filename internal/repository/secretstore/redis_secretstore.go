package secretstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/1abobik1/SecureMsg/internal/domain"
)

// Хранит парные сессионные секреты в Redis: secret:{a}:{b}, где a и b —
// отсортированные id участников. Запись — JSON с ключом и дедлайном,
// TTL ключа Redis дублирует дедлайн как страховку от утечки записей.
type redisSecretStore struct {
	cli *redis.Client
	ttl time.Duration
}

// addr — адрес redis, ttl — скользящее окно жизни секрета.
func NewRedisSecretStore(addr string, ttl time.Duration) *redisSecretStore {
	return &redisSecretStore{
		cli: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

// PairKey — каноничный ключ неупорядоченной пары участников.
func PairKey(clientID, peerID string) string {
	a, b := clientID, peerID
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("secret:%s:%s", a, b)
}

// Save кладёт секрет пары, затирая предыдущий: повторная установка
// для той же пары всегда заменяет старую запись.
func (r *redisSecretStore) Save(ctx context.Context, clientID, peerID string, key []byte) error {
	rec := domain.SessionSecret{
		Key:       key,
		CreatedAt: time.Now(),
		TTL:       r.ttl,
	}
	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session secret: %w", err)
	}
	if err := r.cli.Set(ctx, PairKey(clientID, peerID), blob, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis save session secret: %w", err)
	}
	return nil
}

// Get возвращает запись секрета как есть, без проверки дедлайна:
// решение об истечении принимает вызывающая сторона.
func (r *redisSecretStore) Get(ctx context.Context, clientID, peerID string) (domain.SessionSecret, bool, error) {
	blob, err := r.cli.Get(ctx, PairKey(clientID, peerID)).Bytes()
	if err == redis.Nil {
		return domain.SessionSecret{}, false, nil
	}
	if err != nil {
		return domain.SessionSecret{}, false, fmt.Errorf("redis get session secret: %w", err)
	}
	var rec domain.SessionSecret
	if err := json.Unmarshal(blob, &rec); err != nil {
		return domain.SessionSecret{}, false, fmt.Errorf("corrupt session secret record: %w", err)
	}
	return rec, true, nil
}

// Refresh сдвигает дедлайн существующего секрета: скользящее окно
// продлевается при каждом успешном использовании ключа.
func (r *redisSecretStore) Refresh(ctx context.Context, clientID, peerID string) error {
	rec, found, err := r.Get(ctx, clientID, peerID)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	rec.CreatedAt = time.Now()
	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session secret: %w", err)
	}
	if err := r.cli.Set(ctx, PairKey(clientID, peerID), blob, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis refresh session secret: %w", err)
	}
	return nil
}
