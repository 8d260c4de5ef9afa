package dto

// ChannelInitReq — запрос инициализации защищённого канала.
// public_key — опциональное публичное DH-значение клиента десятичной строкой;
// без него ключевую пару генерирует сервер.
type ChannelInitReq struct {
	PublicKey string `json:"public_key"`
}

// ChannelInitResp — ответ инициализации канала.
// private_key присутствует только когда пару генерировал сервер и отдаётся
// исключительно владельцу канала.
type ChannelInitResp struct {
	ClientID   string `json:"client_id"`
	PublicKey  string `json:"public_key,omitempty"`
	PrivateKey string `json:"private_key,omitempty"`
}
