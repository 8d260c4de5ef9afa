package service

import (
	"context"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/1abobik1/SecureMsg/internal/crypto/dhgroup"
)

// InitializeSecureChannel готовит ключевой материал клиента.
// Если клиент принёс собственное публичное значение — проверяем его и сохраняем
// только публичную половину, приватный скаляр остаётся у клиента.
// Без него генерируем пару на сервере, персистим обе половины и возвращаем
// пару владельцу: приватная часть не отдаётся никому другому.
func (s *service) InitializeSecureChannel(ctx context.Context, clientID string, clientPub *big.Int) (*dhgroup.KeyPair, error) {
	const op = "location internal.service.channel.InitializeSecureChannel"

	if clientPub != nil {
		if err := dhgroup.CheckPublic(clientPub); err != nil {
			return nil, err
		}
		if err := s.keys.SavePublic(ctx, clientID, clientPub); err != nil {
			logrus.Errorf("%s: %v", op, err)
			return nil, ErrStorageUnavailable
		}
		return nil, nil
	}

	kp, err := dhgroup.GenerateKeyPair()
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		return nil, err
	}
	if err := s.keys.SaveKeyPair(ctx, clientID, kp.Private, kp.Public); err != nil {
		logrus.Errorf("%s: %v", op, err)
		return nil, ErrStorageUnavailable
	}
	return kp, nil
}
