package dto

// SessionTestReq — проверка сессии: конверт, зашифрованный клиентом ключом
// его пары с peer_id.
// swagger:model SessionTestReq
type SessionTestReq struct {
	PeerID     string `json:"peer_id" binding:"required"`
	IV         string `json:"iv" binding:"required"`
	Ciphertext string `json:"ciphertext" binding:"required"`
	Hash       string `json:"hash" binding:"required"`
}

// SessionTestResp — расшифрованный ответ.
// swagger:model SessionTestResp
type SessionTestResp struct {
	Plaintext string `json:"plaintext"`
}
