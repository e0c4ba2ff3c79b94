package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

type Config struct {
	Logger   Logger   `envPrefix:"LOGGER_"`
	HTTP     HTTP     `envPrefix:"HTTP_"`
	Convert  Convert  `envPrefix:"CONVERT_"`
	Chromium Chromium `envPrefix:"CHROMIUM_"`
}

func Parse() (*Config, error) {
	conf, err := env.ParseAsWithOptions[Config](env.Options{
		Prefix: "TRANSMUTE_",
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &conf, nil
}
