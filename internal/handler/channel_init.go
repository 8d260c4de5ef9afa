package handler

import (
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/1abobik1/SecureMsg/internal/dto"
)

// @Summary     Инициализация защищённого канала
// @Description Клиент заявляет о себе перед перепиской.
// @Description Если в теле передан public_key (десятичная строка DH-значения) —
// @Description сервер проверяет и сохраняет его, приватный скаляр остаётся у клиента.
// @Description Без public_key сервер генерирует пару сам и возвращает обе половины
// @Description владельцу (исходная модель), публичная половина становится доступна
// @Description другим участникам для установления парного секрета.
// @Tags        channel
// @Accept      json
// @Produce     json
// @Param       X-Client-ID header    string             true  "Client ID"
// @Param       input       body      dto.ChannelInitReq true  "Параметры инициализации"
// @Success     200         {object}  dto.ChannelInitResp
// @Failure     400         {object}  dto.BadRequestErr
// @Failure     503         {object}  dto.ServiceUnavailableErr
// @Router      /channel/init [post]
func (h *handler) ChannelInit(c *gin.Context) {
	const op = "location internal.handler.channel_init.ChannelInit"

	var req dto.ChannelInitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	// clientID кладёт middleware RequireClientID
	clientID := c.GetString("clientID")

	var clientPub *big.Int
	if req.PublicKey != "" {
		v, ok := new(big.Int).SetString(req.PublicKey, 10)
		if !ok {
			logrus.Errorf("%s: malformed public_key", op)
			c.JSON(http.StatusBadRequest, dto.BadRequestErr{Error: "malformed public_key"})
			return
		}
		clientPub = v
	}

	kp, err := h.svc.InitializeSecureChannel(c.Request.Context(), clientID, clientPub)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		writeRelayError(c, err)
		return
	}

	resp := dto.ChannelInitResp{ClientID: clientID}
	if kp != nil {
		resp.PublicKey = kp.Public.Text(10)
		resp.PrivateKey = kp.Private.Text(10)
	}
	c.JSON(http.StatusOK, resp)
}
