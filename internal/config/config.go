package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-yaml/yaml"

	"github.com/ravenridge/questforge/internal/domain"
)

type Config struct {
	Server Server `yaml:"server"`
	Auth   Auth   `yaml:"auth"`
}

type Server struct {
	ListenAddr    string `yaml:"listenAddr" env:"QUESTFORGE_LISTEN_ADDR"`
	PostgresDsn   string `yaml:"postgresDsn" env:"QUESTFORGE_POSTGRES_DSN"`
	RedisAddr     string `yaml:"redisAddr" env:"QUESTFORGE_REDIS_ADDR"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint" env:"QUESTFORGE_TRACE_ENDPOINT"`
}

type Auth struct {
	Secret      string `yaml:"secret" env:"QUESTFORGE_TOKEN_SECRET"`
	Issuer      string `yaml:"issuer"`
	TokenExpiry string `yaml:"tokenExpiry" env:"QUESTFORGE_TOKEN_EXPIRY"` // go duration string
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	// environment wins over the file for deploy-time values
	err = env.Parse(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.ListenAddr == "" {
		config.Server.ListenAddr = ":8000"
	}
	if config.Auth.Issuer == "" {
		config.Auth.Issuer = "questforge"
	}
	if config.Auth.TokenExpiry == "" {
		config.Auth.TokenExpiry = "12h"
	}

	return config, nil
}

// AuthConfig converts the parsed auth section into the domain configuration
// injected into the credential service.
func (c Config) AuthConfig() (domain.AuthConfig, error) {
	expiry, err := time.ParseDuration(c.Auth.TokenExpiry)
	if err != nil {
		return domain.AuthConfig{}, err
	}
	return domain.AuthConfig{
		Secret:      c.Auth.Secret,
		Issuer:      c.Auth.Issuer,
		TokenExpiry: expiry,
	}, nil
}
