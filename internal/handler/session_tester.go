package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/1abobik1/SecureMsg/internal/crypto/envelope"
	"github.com/1abobik1/SecureMsg/internal/dto"
	"github.com/1abobik1/SecureMsg/internal/service"
)

// @Summary     Тестовое расшифрование сессионного конверта
// @Description Клиент шлёт конверт (iv, ciphertext, hash), зашифрованный ключом
// @Description его пары с peer_id. Сервер достаёт сессионный ключ, проверяет
// @Description целостность, снимает PKCS#7 padding и возвращает plaintext.
// @Description Успешная расшифровка продлевает скользящее окно секрета.
// @Tags        session
// @Accept      json
// @Produce     json
// @Param       X-Client-ID header    string              true  "Client ID"
// @Param       input       body      dto.SessionTestReq  true  "Конверт для проверки"
// @Success     200         {object}  dto.SessionTestResp "Успешный ответ: plaintext"
// @Failure     400         {object}  dto.BadRequestErr   "Неверный формат или padding"
// @Failure     401         {object}  dto.UnauthorizedErr "Проверка целостности не прошла"
// @Failure     404         {object}  dto.NotFoundErr     "Сессия не найдена или истекла"
// @Router      /session/test [post]
func (h *handler) SessionTester(c *gin.Context) {
	const op = "location internal.handler.session_tester.SessionTester"

	var req dto.SessionTestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	clientID := c.GetString("clientID")

	env := envelope.Envelope{IV: req.IV, Ciphertext: req.Ciphertext, Hash: req.Hash}
	plaintext, err := h.svc.DecryptWithSession(c.Request.Context(), clientID, req.PeerID, env)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SessionTestResp{Plaintext: string(plaintext)})
}

// writeSessionError мапит ошибки сессионной расшифровки на HTTP-статусы.
func writeSessionError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, envelope.ErrInvalidPadding):
		c.JSON(http.StatusBadRequest, dto.BadRequestErr{Error: "invalid encrypted payload"})
	case errors.Is(err, envelope.ErrIntegrity):
		c.JSON(http.StatusUnauthorized, dto.UnauthorizedErr{Error: "message integrity check failed"})
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSessionExpired):
		c.JSON(http.StatusNotFound, dto.NotFoundErr{Error: err.Error()})
	default:
		writeRelayError(c, err)
	}
}
