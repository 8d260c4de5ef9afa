package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/1abobik1/SecureMsg/internal/crypto/envelope"
	"github.com/1abobik1/SecureMsg/internal/domain"
)

// Receipt — подтверждение приёма сообщения relay-ем.
// Delivered=false означает, что получатель был оффлайн и конверт лёг в журнал.
type Receipt struct {
	MessageID string
	Delivered bool
}

// HandleMessage прогоняет входящее сообщение через конвейер relay:
// валидация → ключ сессии (с inline-рукопожатием при промахе) → шифрование →
// живая доставка либо журнал. Оффлайн получателя — не ошибка: relay
// гарантирует отложенную доставку через durable-журнал, а не синхронное
// подтверждение получения.
func (s *service) HandleMessage(ctx context.Context, senderID, recipientID, message string) (Receipt, error) {
	const op = "location internal.service.relay.HandleMessage"

	if senderID == "" || recipientID == "" || message == "" {
		return Receipt{}, ErrMalformedMessage
	}

	key, err := s.sessionKey(ctx, senderID, recipientID)
	if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired) {
		key, err = s.establishSecret(ctx, senderID, recipientID)
	}
	if err != nil {
		return Receipt{}, err
	}

	env, err := envelope.Seal([]byte(message), key)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		return Receipt{}, err
	}

	s.refreshSession(ctx, senderID, recipientID, key)

	stored := domain.StoredEnvelope{
		ID:        uuid.NewString(),
		Sender:    senderID,
		Recipient: recipientID,
		Timestamp: time.Now().Unix(),
		Message:   env,
	}

	if conn, ok := s.conns.Lookup(recipientID); ok && conn.IsOpen() {
		if err := conn.Send(stored); err == nil {
			return Receipt{MessageID: stored.ID, Delivered: true}, nil
		}
		// живой путь сорвался на отправке — конверт не теряем, уводим в журнал
		logrus.Warnf("%s: live delivery to %s failed, falling back to store", op, recipientID)
	}

	if err := s.messages.Append(ctx, stored); err != nil {
		logrus.Errorf("%s: %v", op, err)
		return Receipt{}, ErrStorageUnavailable
	}
	return Receipt{MessageID: stored.ID, Delivered: false}, nil
}

// GetMessages возвращает сохранённые конверты: журнал одной пары либо,
// без peerID, все переписки клиента.
func (s *service) GetMessages(ctx context.Context, clientID, peerID string) ([]domain.StoredEnvelope, error) {
	const op = "location internal.service.relay.GetMessages"

	if clientID == "" {
		return nil, ErrMalformedMessage
	}

	var (
		envs []domain.StoredEnvelope
		err  error
	)
	if peerID != "" {
		envs, err = s.messages.List(ctx, clientID, peerID)
	} else {
		envs, err = s.messages.ListAll(ctx, clientID)
	}
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		return nil, ErrStorageUnavailable
	}
	return envs, nil
}
