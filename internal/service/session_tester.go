package service

import (
	"context"

	"github.com/1abobik1/SecureMsg/internal/crypto/envelope"
)

// DecryptWithSession расшифровывает конверт клиента ключом его пары с peerID
// и проверяет целостность. Inline-рукопожатия здесь нет: проверка работает
// только по уже установленной сессии. Успешная расшифровка продлевает
// скользящее окно секрета.
func (s *service) DecryptWithSession(ctx context.Context, clientID, peerID string, env envelope.Envelope) ([]byte, error) {
	if clientID == "" || peerID == "" {
		return nil, ErrMalformedMessage
	}

	key, err := s.sessionKey(ctx, clientID, peerID)
	if err != nil {
		return nil, err
	}

	plaintext, err := envelope.Open(env, key)
	if err != nil {
		return nil, err
	}

	s.refreshSession(ctx, clientID, peerID, key)
	return plaintext, nil
}
