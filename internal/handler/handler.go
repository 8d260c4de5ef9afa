package handler

import (
	"context"
	"math/big"

	"github.com/1abobik1/SecureMsg/internal/crypto/dhgroup"
	"github.com/1abobik1/SecureMsg/internal/crypto/envelope"
	"github.com/1abobik1/SecureMsg/internal/domain"
	"github.com/1abobik1/SecureMsg/internal/registry"
	"github.com/1abobik1/SecureMsg/internal/service"
)

// интерфейс бизнес-логики relay
type Service interface {
	InitializeSecureChannel(ctx context.Context, clientID string, clientPub *big.Int) (*dhgroup.KeyPair, error)
	HandleMessage(ctx context.Context, senderID, recipientID, message string) (service.Receipt, error)
	GetMessages(ctx context.Context, clientID, peerID string) ([]domain.StoredEnvelope, error)
	DecryptWithSession(ctx context.Context, clientID, peerID string, env envelope.Envelope) ([]byte, error)
}

type handler struct {
	svc   Service
	conns *registry.Connections
}

func NewHandler(svc Service, conns *registry.Connections) *handler {
	return &handler{svc: svc, conns: conns}
}
