package messagestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/1abobik1/SecureMsg/internal/domain"
)

// Журнал переписки в Redis: append-only список msg:{a}:{b} на неупорядоченную
// пару участников. Порядок в списке — порядок добавления. Окно хранения
// продлевается при каждом добавлении, после чего журнал пары истекает целиком.
type redisMessageStore struct {
	cli       *redis.Client
	retention time.Duration
}

// addr — адрес redis, retention — окно хранения журнала пары.
func NewRedisMessageStore(addr string, retention time.Duration) *redisMessageStore {
	return &redisMessageStore{
		cli:       redis.NewClient(&redis.Options{Addr: addr}),
		retention: retention,
	}
}

func convKey(clientID, peerID string) string {
	a, b := clientID, peerID
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("msg:%s:%s", a, b)
}

// Append дописывает конверт в журнал пары и продлевает окно хранения.
func (r *redisMessageStore) Append(ctx context.Context, env domain.StoredEnvelope) error {
	blob, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal stored envelope: %w", err)
	}
	key := convKey(env.Sender, env.Recipient)
	if err := r.cli.RPush(ctx, key, blob).Err(); err != nil {
		return fmt.Errorf("redis append message: %w", err)
	}
	if err := r.cli.Expire(ctx, key, r.retention).Err(); err != nil {
		return fmt.Errorf("redis expire conversation: %w", err)
	}
	return nil
}

// List возвращает журнал одной пары в порядке добавления.
func (r *redisMessageStore) List(ctx context.Context, clientID, peerID string) ([]domain.StoredEnvelope, error) {
	return r.readList(ctx, convKey(clientID, peerID))
}

// ListAll собирает журналы всех переписок, в которых участвует клиент.
func (r *redisMessageStore) ListAll(ctx context.Context, clientID string) ([]domain.StoredEnvelope, error) {
	keys, err := r.cli.Keys(ctx, fmt.Sprintf("msg:*%s*", clientID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list conversations: %w", err)
	}
	var all []domain.StoredEnvelope
	for _, key := range keys {
		envs, err := r.readList(ctx, key)
		if err != nil {
			return nil, err
		}
		all = append(all, envs...)
	}
	return all, nil
}

func (r *redisMessageStore) readList(ctx context.Context, key string) ([]domain.StoredEnvelope, error) {
	blobs, err := r.cli.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read conversation: %w", err)
	}
	envs := make([]domain.StoredEnvelope, 0, len(blobs))
	for _, blob := range blobs {
		var env domain.StoredEnvelope
		if err := json.Unmarshal([]byte(blob), &env); err != nil {
			return nil, fmt.Errorf("corrupt stored envelope: %w", err)
		}
		envs = append(envs, env)
	}
	return envs, nil
}
