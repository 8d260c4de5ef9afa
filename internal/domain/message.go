package domain

import (
	"time"

	"github.com/1abobik1/SecureMsg/internal/crypto/envelope"
)

// StoredEnvelope — запись журнала переписки: кто, кому, когда и сам конверт.
// Пара (Sender, Recipient) одновременно служит ссылкой на сессию.
type StoredEnvelope struct {
	ID        string            `json:"id"`
	Sender    string            `json:"sender"`
	Recipient string            `json:"recipient"`
	Timestamp int64             `json:"timestamp"`
	Message   envelope.Envelope `json:"message"`
}

// SessionSecret — durable-запись парного сессионного ключа.
type SessionSecret struct {
	Key       []byte        `json:"key"`
	CreatedAt time.Time     `json:"created_at"`
	TTL       time.Duration `json:"ttl"`
}

// Expired сообщает, истёк ли секрет к моменту now.
// Проверка по сохранённому дедлайну, а не по факту наличия записи в сторадже:
// из-за рассинхрона часов запись может физически пережить свой TTL.
func (s SessionSecret) Expired(now time.Time) bool {
	return !now.Before(s.CreatedAt.Add(s.TTL))
}
