package dto

import "github.com/1abobik1/SecureMsg/internal/domain"

// SendMessageReq — исходящее сообщение клиента: кому и что.
// Шифрование выполняет relay под ключом сессии пары.
type SendMessageReq struct {
	Recipient string `json:"recipient" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// SendMessageResp — подтверждение приёма: opaque id сообщения и способ
// доставки ("delivered" — живой получатель, "stored" — журнал).
type SendMessageResp struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id"`
	Delivery  string `json:"delivery"`
}

// GetMessagesResp — сохранённые конверты переписки.
type GetMessagesResp struct {
	Messages []domain.StoredEnvelope `json:"messages"`
}

// ConnectedFrame — приветственный фрейм WS-подключения.
type ConnectedFrame struct {
	Type      string `json:"type"`
	ClientID  string `json:"client_id"`
	PublicKey string `json:"public_key,omitempty"`
}

// MessageFrame — конверт, доставляемый живому получателю.
type MessageFrame struct {
	Type     string                `json:"type"`
	Envelope domain.StoredEnvelope `json:"envelope"`
}

// AckFrame — подтверждение отправителю в WS-сессии.
type AckFrame struct {
	Type      string `json:"type"`
	MessageID string `json:"message_id"`
	Delivery  string `json:"delivery"`
}

// ErrorFrame — структурная ошибка в WS-сессии; соединение не рвётся.
type ErrorFrame struct {
	Error string `json:"error"`
}
