package setup

import (
	"context"

	"github.com/bornholm/transmute/internal/config"
	"github.com/bornholm/transmute/internal/core/service"
	"github.com/bornholm/transmute/internal/extract"
	"github.com/bornholm/transmute/internal/render"
	"github.com/bornholm/transmute/internal/sniff"
	"github.com/pkg/errors"
)

var getConversionManagerFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*service.ConversionManager, error) {
	htmlRenderer, err := getHTMLRendererFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create html renderer from config")
	}

	rendererOptions := []render.OptionFunc{}
	if htmlRenderer != nil {
		rendererOptions = append(rendererOptions, render.WithHTMLRenderer(htmlRenderer))
	}

	manager := service.NewConversionManager(
		service.WithConversionManagerSniffer(sniff.NewSniffer()),
		service.WithConversionManagerExtractor(extract.NewExtractor()),
		service.WithConversionManagerRenderer(render.NewRenderer(rendererOptions...)),
		service.WithConversionManagerMaxPayloadSize(conf.Convert.MaxPayloadSize),
	)

	return manager, nil
})
