package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/1abobik1/SecureMsg/internal/crypto/dhgroup"
	"github.com/1abobik1/SecureMsg/internal/crypto/kdf"
	"github.com/1abobik1/SecureMsg/internal/crypto/memzero"
)

// метка контекста HKDF; фиксирована для всех сессионных ключей
const keyLabel = "handshake data"

// pairID — каноничный идентификатор сессии пары: отсортированные id.
func pairID(clientID, peerID string) string {
	a, b := clientID, peerID
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// sessionKey возвращает симметричный ключ пары: сперва локальный кеш, затем
// durable-сторадж с репопуляцией кеша. Протухшую запись не отдаёт, даже если
// она ещё физически лежит в хранилище.
func (s *service) sessionKey(ctx context.Context, clientID, peerID string) ([]byte, error) {
	const op = "location internal.service.sessions.sessionKey"

	id := pairID(clientID, peerID)
	if v, ok := s.cache.Get(id); ok {
		return v.([]byte), nil
	}

	sec, found, err := s.secrets.Get(ctx, clientID, peerID)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		return nil, ErrStorageUnavailable
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	if sec.Expired(time.Now()) {
		return nil, ErrSessionExpired
	}

	s.cache.Set(id, sec.Key, time.Until(sec.CreatedAt.Add(sec.TTL)))
	return sec.Key, nil
}

// establishSecret — inline-рукопожатие на сохранённом материале сторон:
// приватный скаляр одной стороны + публичное значение другой, затем
// обязательная деривация через HKDF. Повторная установка для той же пары
// заменяет старый секрет. Сырое общее значение и скаляр затираются сразу
// после деривации.
func (s *service) establishSecret(ctx context.Context, clientID, peerID string) ([]byte, error) {
	const op = "location internal.service.sessions.establishSecret"

	priv, okPriv, err := s.keys.GetPrivate(ctx, clientID)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		return nil, ErrStorageUnavailable
	}
	pub, okPub, err := s.keys.GetPublic(ctx, peerID)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		return nil, ErrStorageUnavailable
	}

	if !okPriv || !okPub {
		// пробуем с другой стороны: приватный получателя + публичный отправителя
		priv, okPriv, err = s.keys.GetPrivate(ctx, peerID)
		if err != nil {
			logrus.Errorf("%s: %v", op, err)
			return nil, ErrStorageUnavailable
		}
		pub, okPub, err = s.keys.GetPublic(ctx, clientID)
		if err != nil {
			logrus.Errorf("%s: %v", op, err)
			return nil, ErrStorageUnavailable
		}
		if !okPriv || !okPub {
			return nil, ErrChannelUnavailable
		}
	}

	shared, err := dhgroup.SharedValue(priv, pub)
	memzero.Scalar(priv)
	if err != nil {
		return nil, err
	}

	key, err := kdf.DeriveKey(shared, keyLabel)
	memzero.Scalar(shared)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		return nil, err
	}

	if err := s.secrets.Save(ctx, clientID, peerID, key); err != nil {
		logrus.Errorf("%s: %v", op, err)
		return nil, ErrStorageUnavailable
	}
	s.cache.Set(pairID(clientID, peerID), key, s.secretTTL)
	return key, nil
}

// refreshSession сдвигает скользящее окно после успешного использования ключа.
// Сбой продления не фатален для доставки: журналируем и едем дальше.
func (s *service) refreshSession(ctx context.Context, clientID, peerID string, key []byte) {
	const op = "location internal.service.sessions.refreshSession"

	s.cache.Set(pairID(clientID, peerID), key, s.secretTTL)
	if err := s.secrets.Refresh(ctx, clientID, peerID); err != nil {
		logrus.Warnf("%s: %v", op, err)
	}
}
