package snapshot

import (
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	lengthPattern = regexp.MustCompile(`^([0-9]*\.?[0-9]+)(px)?$`)
	rgbPattern    = regexp.MustCompile(`^rgba?\((\d+),(\d+),(\d+)(?:,([0-9]*\.?[0-9]+))?\)$`)
	hexPattern    = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// ParseLength parses a CSS pixel length such as "12px" or "7.5".
func ParseLength(s string) (float64, error) {
	m := lengthPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("snapshot: invalid length %q", s)
	}
	return strconv.ParseFloat(m[1], 64)
}

// ParseColor understands #rgb, #rrggbb, rgb(r, g, b), rgba(r, g, b, a) and "transparent".
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "transparent" {
		return color.NRGBA{}, nil
	}
	if hexPattern.MatchString(s) {
		c, err := colorful.Hex(expandHex(s))
		if err != nil {
			return nil, err
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
	}
	if m := rgbPattern.FindStringSubmatch(strings.Join(strings.Fields(s), "")); m != nil {
		r, g, b := channel(m[1]), channel(m[2]), channel(m[3])
		a := uint8(0xff)
		if m[4] != "" {
			f, err := strconv.ParseFloat(m[4], 64)
			if err != nil {
				return nil, err
			}
			a = uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
		}
		return color.NRGBA{R: r, G: g, B: b, A: a}, nil
	}
	return nil, fmt.Errorf("snapshot: unsupported color %q", s)
}

// NormalizeColor rewrites rgb()/rgba() and short hex colors as #rrggbb.
// Alpha is dropped. Anything it does not recognise is returned unchanged.
func NormalizeColor(s string) string {
	t := strings.TrimSpace(strings.ToLower(s))
	if !hexPattern.MatchString(t) && !rgbPattern.MatchString(strings.Join(strings.Fields(t), "")) {
		return s
	}
	c, err := ParseColor(t)
	if err != nil {
		return s
	}
	cf, _ := colorful.MakeColor(opaque(c))
	return cf.Hex()
}

func opaque(c color.Color) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 0xff
	return n
}

func expandHex(s string) string {
	if len(s) != 4 {
		return s
	}
	return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
}

func channel(s string) uint8 {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
