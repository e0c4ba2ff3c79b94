package setup

import (
	"context"

	"github.com/bornholm/transmute/internal/chromium"
	"github.com/bornholm/transmute/internal/config"
	"github.com/bornholm/transmute/internal/core/port"
)

var getHTMLRendererFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.HTMLRenderer, error) {
	if !conf.Chromium.Enabled {
		return nil, nil
	}

	renderer := chromium.NewRenderer(
		chromium.WithBinaryPath(conf.Chromium.BinaryPath),
		chromium.WithTimeout(conf.Chromium.Timeout),
	)

	return renderer, nil
})
