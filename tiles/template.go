package tiles

import (
	"strconv"
	"strings"
)

// ExpandTemplate fills a tile URL template of the form
// "https://{s}.example.com/{z}/{x}/{y}.png". Unknown placeholders are left as is.
func ExpandTemplate(template string, t TileAddress, zoom int, subdomains string) string {
	s := ""
	if n := len(subdomains); n > 0 {
		i := abs(t.X+t.Y) % n
		s = subdomains[i : i+1]
	}
	r := strings.NewReplacer(
		"{x}", strconv.Itoa(t.X),
		"{y}", strconv.Itoa(t.Y),
		"{z}", strconv.Itoa(zoom),
		"{s}", s,
	)
	return r.Replace(template)
}

// AddCacheBuster appends cache=<value> to the URL query. Inline data URLs and
// Mapbox style URLs are returned untouched, as is everything when value is empty.
func AddCacheBuster(url, value string) string {
	if value == "" || IsDataURL(url) || strings.Contains(url, "mapbox.com/styles/v1") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "cache=" + value
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
