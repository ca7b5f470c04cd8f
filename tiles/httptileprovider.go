package tiles

import (
	"context"
	"fmt"
	"image"
	"net/http"

	"github.com/olablt/mapsnap/log"
)

var logger = log.New("tiles")

// HTTPFetcher downloads images over HTTP(S).
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

func NewHTTPFetcher(client *http.Client, userAgent string) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	if userAgent == "" {
		userAgent = "mapsnap/1.0"
	}
	return &HTTPFetcher{
		client:    client,
		userAgent: userAgent,
	}
}

func (p *HTTPFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	logger.Debugf("requesting %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "image/webp,image/png,image/jpeg,*/*")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tiles: unexpected status code %d for %s", resp.StatusCode, url)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tiles: decoding %s: %w", url, err)
	}

	logger.Debugf("loaded %s", url)
	return img, nil
}
