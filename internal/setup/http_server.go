package setup

import (
	"context"

	"github.com/bornholm/transmute/internal/config"
	"github.com/bornholm/transmute/internal/http"
	"github.com/bornholm/transmute/internal/http/handler/api"
	"github.com/bornholm/transmute/internal/http/middleware/authz"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewHTTPServerFromConfig(ctx context.Context, conf *config.Config) (*http.Server, error) {
	conversionManager, err := getConversionManagerFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not configure conversion manager from config")
	}

	htmlRenderer, err := getHTMLRendererFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not configure html renderer from config")
	}

	options := []http.OptionFunc{
		http.WithAddress(conf.HTTP.Address),
		http.WithBaseURL(conf.HTTP.BaseURL),
		http.WithAllowedOrigins(conf.HTTP.AllowedOrigins...),
		http.WithAllowAnonymous(conf.HTTP.Auth.AllowAnonymous),
		http.WithUser(conf.HTTP.Auth.Reader.Username, conf.HTTP.Auth.Reader.Password, authz.RoleReader),
		http.WithUser(conf.HTTP.Auth.Writer.Username, conf.HTTP.Auth.Writer.Password, authz.RoleReader, authz.RoleWriter),
		http.WithMount("/api/v1", api.NewHandler(conversionManager, htmlRenderer)),
		http.WithMount("/metrics", promhttp.Handler()),
	}

	server := http.NewServer(options...)

	return server, nil
}
