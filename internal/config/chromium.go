package config

import "time"

type Chromium struct {
	Enabled    bool          `env:"ENABLED,expand" envDefault:"true"`
	BinaryPath string        `env:"BINARY_PATH,expand"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"30s"`
}
