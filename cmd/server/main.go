package main

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/1abobik1/SecureMsg/config"
	"github.com/1abobik1/SecureMsg/internal/handler"
	"github.com/1abobik1/SecureMsg/internal/registry"
	"github.com/1abobik1/SecureMsg/internal/repository/keystore"
	"github.com/1abobik1/SecureMsg/internal/repository/messagestore"
	"github.com/1abobik1/SecureMsg/internal/repository/secretstore"
	"github.com/1abobik1/SecureMsg/internal/routes"
	"github.com/1abobik1/SecureMsg/internal/service"
)

func init() {
	binding.EnableDecoderDisallowUnknownFields = true // отвергает лишние поля у DTO при запросе
}

func main() {
	// 1) Загрузка конфига
	cfg := config.MustLoad()

	// 2) Репозитории поверх Redis
	// 2.1. DH-ключи клиентов (30 дней)
	keys := keystore.NewRedisKeyStore(cfg.Redis.ServerAddr, cfg.Redis.KeypairTTL)

	// 2.2. Парные сессионные секреты (скользящий час)
	secrets := secretstore.NewRedisSecretStore(cfg.Redis.ServerAddr, cfg.Redis.SecretTTL)

	// 2.3. Журнал переписки (30 дней на пару)
	messages := messagestore.NewRedisMessageStore(cfg.Redis.ServerAddr, cfg.Redis.MessageTTL)

	// 3) Реестр живых подключений
	conns := registry.NewConnections()

	// 4) Сервисный слой
	relay := service.NewService(keys, secrets, messages, conns, cfg.Redis.SecretTTL)

	// 5) Handler и маршрутизация
	h := handler.NewHandler(relay, conns)

	r := gin.Default()
	routes.RegisterRoutes(r, cfg, h)

	// 6) Запуск
	logrus.Infof("Starting server on %s", cfg.HTTPServ.ServerAddr)
	if err := r.Run(cfg.HTTPServ.ServerAddr); err != nil {
		panic(err)
	}
}
