package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/1abobik1/SecureMsg/internal/crypto/dhgroup"
	"github.com/1abobik1/SecureMsg/internal/dto"
	"github.com/1abobik1/SecureMsg/internal/service"
)

func handleBindError(c *gin.Context, err error) {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		out := make(map[string]string, len(verrs))

		for _, fe := range verrs {
			out[fe.Field()] = fmt.Sprintf("must satisfy %s", fe.Tag())
		}

		logrus.WithError(err).Warn(out)
		c.JSON(http.StatusBadRequest, gin.H{"errors": out})
		return
	}

	logrus.WithError(err).Warn("invalid request data")
	c.JSON(http.StatusBadRequest, dto.BadRequestErr{Error: "invalid request data"})
}

// writeRelayError мапит таксономию ошибок ядра на HTTP-статусы.
// Все ошибки relay восстановимы и отдаются вызывающему структурно.
func writeRelayError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, service.ErrMalformedMessage):
		c.JSON(http.StatusBadRequest, dto.BadRequestErr{Error: err.Error()})
	case errors.Is(err, dhgroup.ErrInvalidPeerKey):
		c.JSON(http.StatusBadRequest, dto.BadRequestErr{Error: err.Error()})
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSessionExpired):
		c.JSON(http.StatusNotFound, dto.NotFoundErr{Error: err.Error()})
	case errors.Is(err, service.ErrChannelUnavailable):
		c.JSON(http.StatusConflict, dto.ConflictErr{Error: err.Error()})
	case errors.Is(err, service.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.ServiceUnavailableErr{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.InternalServerErr{Error: "internal error"})
	}
}
