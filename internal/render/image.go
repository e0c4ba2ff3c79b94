package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/bornholm/transmute/internal/core/model"
	"github.com/bornholm/transmute/internal/core/port"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	BackendImaging     = "imaging"
	BackendPlaceholder = "placeholder"
)

// renderImage re-encodes the source raster into the target format. Sources
// with no raster payload, like PDF pages, get a placeholder preview carrying
// the first lines of extracted text.
func renderImage(doc *model.Intermediate, target model.Format) ([]byte, string, error) {
	if len(doc.Binary) == 0 {
		data, err := encodeImage(placeholderRaster(plainText(doc)), target)
		if err != nil {
			return nil, "", errors.WithStack(err)
		}

		return data, BackendPlaceholder, nil
	}

	img, err := imaging.Decode(bytes.NewReader(doc.Binary))
	if err != nil {
		return nil, "", errors.Wrap(port.ErrUnsupportedImageFormat, err.Error())
	}

	data, err := encodeImage(img, target)
	if err != nil {
		return nil, "", errors.WithStack(err)
	}

	return data, BackendImaging, nil
}

func encodeImage(img image.Image, target model.Format) ([]byte, error) {
	var buf bytes.Buffer

	switch target {
	case model.FormatPNG:
		if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
			return nil, errors.WithStack(err)
		}
	case model.FormatJPG:
		if err := imaging.Encode(&buf, flatten(img), imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
			return nil, errors.WithStack(err)
		}
	default:
		return nil, errors.Wrapf(port.ErrUnsupportedImageFormat, "'%s'", target)
	}

	return buf.Bytes(), nil
}

// flatten composites the image over white so transparent regions do not turn
// black in JPEG output.
func flatten(img image.Image) image.Image {
	bounds := img.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, bounds, img, bounds.Min, draw.Over)

	return flat
}

const (
	placeholderWidth  = 612
	placeholderHeight = 792
)

// placeholderRaster draws the document text on a letter-sized white canvas.
func placeholderRaster(text string) image.Image {
	canvas := image.NewRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}

	y := 40
	for _, line := range strings.Split(text, "\n") {
		if y > placeholderHeight-20 {
			break
		}

		for len(line) > 80 {
			drawer.Dot = fixed.P(40, y)
			drawer.DrawString(line[:80])
			line = line[80:]

			y += face.Height + 4
			if y > placeholderHeight-20 {
				return canvas
			}
		}

		drawer.Dot = fixed.P(40, y)
		drawer.DrawString(line)

		y += face.Height + 4
	}

	return canvas
}
