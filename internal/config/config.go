package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort       string `env:"HTTP_PORT" envDefault:"8080"`
	ClerkSecretKey string `env:"CLERK_SECRET_KEY,required"`
	ClerkBaseURL   string `env:"CLERK_BASE_URL" envDefault:"https://api.clerk.com/v1"`

	// El tope de pagina lo pone el proveedor y varia por deployment, por eso
	// es configuracion y no constante.
	ClerkPageSize int `env:"CLERK_PAGE_SIZE" envDefault:"100"`
	ScanMaxOffset int `env:"SCAN_MAX_OFFSET" envDefault:"10000"`

	LoginSearchTimeout    time.Duration `env:"LOGIN_SEARCH_TIMEOUT" envDefault:"5s"`
	VerifyPasswordTimeout time.Duration `env:"VERIFY_PASSWORD_TIMEOUT" envDefault:"5s"`

	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`
	LoginRateMax    int           `env:"LOGIN_RATE_MAX" envDefault:"10"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
