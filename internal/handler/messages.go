package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/1abobik1/SecureMsg/internal/dto"
	"github.com/1abobik1/SecureMsg/internal/service"
)

// @Summary     Сохранённые сообщения
// @Description Отдаёт журнал переписки клиента: с peer_id — одну пару,
// @Description без него — все переписки клиента. Конверты как были приняты,
// @Description в порядке добавления; сервер их не расшифровывает.
// @Tags        messages
// @Produce     json
// @Param       X-Client-ID header    string  true   "Client ID"
// @Param       peer_id     query     string  false  "ID собеседника"
// @Success     200         {object}  dto.GetMessagesResp
// @Failure     503         {object}  dto.ServiceUnavailableErr
// @Router      /messages [get]
func (h *handler) GetMessages(c *gin.Context) {
	const op = "location internal.handler.messages.GetMessages"

	clientID := c.GetString("clientID")
	peerID := c.Query("peer_id")

	envs, err := h.svc.GetMessages(c.Request.Context(), clientID, peerID)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		writeRelayError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GetMessagesResp{Messages: envs})
}

// @Summary     Отправка сообщения через REST
// @Description Тот же конвейер relay, что и в WS-сессии: валидация, ключ сессии,
// @Description шифрование, живая доставка или журнал. Оффлайн получателя — успех.
// @Tags        messages
// @Accept      json
// @Produce     json
// @Param       X-Client-ID header    string             true  "Client ID"
// @Param       input       body      dto.SendMessageReq true  "Сообщение"
// @Success     200         {object}  dto.SendMessageResp
// @Failure     400         {object}  dto.BadRequestErr
// @Failure     409         {object}  dto.ConflictErr
// @Failure     503         {object}  dto.ServiceUnavailableErr
// @Router      /messages [post]
func (h *handler) SendMessage(c *gin.Context) {
	const op = "location internal.handler.messages.SendMessage"

	var req dto.SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	clientID := c.GetString("clientID")

	receipt, err := h.svc.HandleMessage(c.Request.Context(), clientID, req.Recipient, req.Message)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		writeRelayError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SendMessageResp{
		Status:    "success",
		MessageID: receipt.MessageID,
		Delivery:  deliveryLabel(receipt),
	})
}

func deliveryLabel(r service.Receipt) string {
	if r.Delivered {
		return "delivered"
	}
	return "stored"
}
