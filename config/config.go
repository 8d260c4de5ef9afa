package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type RedisConfig struct {
	ServerAddr string        `env:"REDIS_SERVER_ADDRESS" env-required:"true"`
	SecretTTL  time.Duration `env:"REDIS_SECRET_TTL" env-default:"1h"`
	KeypairTTL time.Duration `env:"REDIS_KEYPAIR_TTL" env-default:"720h"`
	MessageTTL time.Duration `env:"REDIS_MESSAGE_TTL" env-default:"720h"`
}

type HTTPServConfig struct {
	ServerAddr string `env:"HTTP_SERVER_ADDRESS" env-required:"true"`
}

type ChannelInitLimiter struct {
	RPC   float64       `env:"LIMITER_RPC" env-default:"1"`
	Burst int           `env:"LIMITER_BURST" env-default:"3"`
	TTL   time.Duration `env:"LIMITER_EXP_TTL" env-default:"1h"`
}

type SessionLimiter struct {
	RPC   float64       `env:"SES_LIMITER_RPC" env-default:"5"`
	Burst int           `env:"SES_LIMITER_BURST" env-default:"10"`
	TTL   time.Duration `env:"SES_LIMITER_EXP_TTL" env-default:"1h"`
}

type Config struct {
	Redis      RedisConfig
	HTTPServ   HTTPServConfig
	HSLimiter  ChannelInitLimiter
	SesLimiter SessionLimiter
}

func MustLoad() *Config {
	path := getConfigPath()

	if path == "" {
		panic("config path is empty")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		panic("config file does not exists" + path)
	}

	err := godotenv.Load(path)
	if err != nil {
		panic(fmt.Sprintf("No .env file found at %s, relying on environment variables", path))
	}

	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic(fmt.Sprintf("Failed to load environment variables: %v", err))
	}

	return &cfg
}

func getConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	return res
}
