package tiles

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"net/url"
	"regexp"
	"strings"
)

var ErrBadDataURL = errors.New("tiles: malformed data url")

var dataURLPattern = regexp.MustCompile(`(?i)^\s*data:([a-z]+/[a-z0-9.+-]+(;[a-z-]+=[a-z0-9-]+)?)?(;base64)?,[a-z0-9!$&'(),*+;=\-._~:@/?%\s]*\s*$`)

// IsDataURL reports whether s is an inline data: URL.
func IsDataURL(s string) bool {
	return dataURLPattern.MatchString(s)
}

// DecodeDataURL decodes an inline image. No network round trip is involved.
func DecodeDataURL(s string) (image.Image, error) {
	s = strings.TrimSpace(s)
	if !IsDataURL(s) {
		return nil, ErrBadDataURL
	}
	comma := strings.IndexByte(s, ',')
	meta, payload := s[len("data:"):comma], s[comma+1:]

	var raw []byte
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		payload = strings.Join(strings.Fields(payload), "")
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDataURL, err)
		}
		raw = b
	} else {
		p, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDataURL, err)
		}
		raw = []byte(p)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDataURL, err)
	}
	return img, nil
}
