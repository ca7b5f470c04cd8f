package tiles

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LocalScheme is the URL scheme served by LocalFetcher.
const LocalScheme = "local"

// LocalFetcher draws labelled debug tiles without touching the network. It
// understands "local://{z}/{x}/{y}" and "local://tile?x={x}&y={y}&z={z}".
type LocalFetcher struct {
	Size int
}

func NewLocalFetcher(size int) *LocalFetcher {
	if size <= 0 {
		size = TileSize
	}
	return &LocalFetcher{Size: size}
}

func (p *LocalFetcher) Fetch(ctx context.Context, raw string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	z, x, y, err := parseLocalURL(raw)
	if err != nil {
		return nil, err
	}

	size := p.Size
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	// Fill with light blue background
	bgColor := color.RGBA{200, 220, 255, 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{bgColor}, image.Point{}, draw.Src)

	drawLabel(img, fmt.Sprintf("%d/%d/%d", z, x, y))

	borderColor := color.RGBA{100, 100, 100, 255}
	borders := []image.Rectangle{
		image.Rect(0, 0, size, 1),         // Top
		image.Rect(0, size-1, size, size), // Bottom
		image.Rect(0, 0, 1, size),         // Left
		image.Rect(size-1, 0, size, size), // Right
	}
	for _, rect := range borders {
		draw.Draw(img, rect, &image.Uniform{borderColor}, image.Point{}, draw.Src)
	}

	return img, nil
}

func parseLocalURL(raw string) (z, x, y int, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return 0, 0, 0, err
	}
	if u.Scheme != LocalScheme {
		return 0, 0, 0, fmt.Errorf("tiles: unsupported scheme %q in %s", u.Scheme, raw)
	}

	var parts []string
	if q := u.Query(); q.Has("x") && q.Has("y") {
		parts = []string{q.Get("z"), q.Get("x"), q.Get("y")}
		if parts[0] == "" {
			parts[0] = "0"
		}
	} else {
		parts = strings.Split(strings.Trim(u.Host+u.Path, "/"), "/")
	}
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("tiles: malformed local tile url %s", raw)
	}

	vals := make([]int, 3)
	for i, s := range parts {
		if vals[i], err = strconv.Atoi(strings.TrimSuffix(s, ".png")); err != nil {
			return 0, 0, 0, fmt.Errorf("tiles: malformed local tile url %s: %w", raw, err)
		}
	}
	return vals[0], vals[1], vals[2], nil
}

func drawLabel(img *image.RGBA, text string) {
	size := img.Bounds().Dx()

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}

	textWidth := d.MeasureString(text).Round()
	textHeight := face.Metrics().Height.Round()
	cy := size / 2

	padding := 6
	textBgRect := image.Rect(
		(size-textWidth)/2-padding,
		cy-textHeight/2-padding,
		(size+textWidth)/2+padding,
		cy+textHeight/2+padding,
	)
	textBgColor := color.RGBA{255, 255, 255, 220}
	draw.Draw(img, textBgRect, &image.Uniform{textBgColor}, image.Point{}, draw.Over)

	d.Dot = fixed.Point26_6{
		X: fixed.I((size - textWidth) / 2),
		Y: fixed.I(cy + textHeight/2),
	}
	d.DrawString(text)
}
