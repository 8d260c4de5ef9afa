package routes

import (
	tb "github.com/didip/tollbooth"
	"github.com/didip/tollbooth/limiter"
	toll_gin "github.com/didip/tollbooth_gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/1abobik1/SecureMsg/config"
	"github.com/1abobik1/SecureMsg/internal/middleware"
)

// Handler — REST и WS поверхность relay.
type Handler interface {
	ChannelInit(c *gin.Context)
	SendMessage(c *gin.Context)
	GetMessages(c *gin.Context)
	SessionTester(c *gin.Context)
	ServeWS(c *gin.Context)
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, h Handler) {
	r.Use(cors.Default())

	// WS-сессия сама несёт client_id в пути, заголовок ей не нужен
	r.GET("/ws/:client_id", h.ServeWS)

	restGroup := r.Group("/")
	restGroup.Use(middleware.RequireClientID())
	{
		// инициализация канала под rate-limit: ключевой материал — не то,
		// чем стоит разбрасываться
		initLimiter := tb.NewLimiter(cfg.HSLimiter.RPC, &limiter.ExpirableOptions{DefaultExpirationTTL: cfg.HSLimiter.TTL})
		initLimiter.SetBurst(cfg.HSLimiter.Burst)

		chGroup := restGroup.Group("/channel")
		{
			chGroup.POST("/init", toll_gin.LimitHandler(initLimiter), h.ChannelInit)
		}

		msgGroup := restGroup.Group("/messages")
		{
			msgGroup.POST("", h.SendMessage)
			msgGroup.GET("", h.GetMessages)
		}

		sesLimiter := tb.NewLimiter(cfg.SesLimiter.RPC, &limiter.ExpirableOptions{DefaultExpirationTTL: cfg.SesLimiter.TTL})
		sesLimiter.SetBurst(cfg.SesLimiter.Burst)

		sGroup := restGroup.Group("/session")
		{
			sGroup.POST("/test", toll_gin.LimitHandler(sesLimiter), h.SessionTester)
		}
	}
}
