package dto

// BadRequestErr описывает ответ с кодом 400.
// swagger:model BadRequestErr
type BadRequestErr struct {
	// example: invalid message format
	Error string `json:"error"`
}

// NotFoundErr описывает ответ с кодом 404.
// swagger:model NotFoundErr
type NotFoundErr struct {
	Error string `json:"error"`
}

// UnauthorizedErr описывает ответ с кодом 401.
// swagger:model UnauthorizedErr
type UnauthorizedErr struct {
	Error string `json:"error"`
}

// ConflictErr описывает ответ с кодом 409 (channel unavailable).
// swagger:model ConflictErr
type ConflictErr struct {
	Error string `json:"error"`
}

// InternalServerErr описывает ответ с кодом 500.
// swagger:model InternalServerErr
type InternalServerErr struct {
	Error string `json:"error"`
}

// ServiceUnavailableErr описывает ответ с кодом 503 (storage unavailable).
// swagger:model ServiceUnavailableErr
type ServiceUnavailableErr struct {
	Error string `json:"error"`
}
