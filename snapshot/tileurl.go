package snapshot

import (
	"regexp"
	"strconv"
)

// Tile URLs are expected to carry their grid position as query parameters:
//
//	...?x=<digits>&y=<digits>...
//
// Both parameters may appear in any order, introduced by '?' or '&'.
var (
	tileXParam = regexp.MustCompile(`[?&]x=(\d+)`)
	tileYParam = regexp.MustCompile(`[?&]y=(\d+)`)
)

// ParseTileURL extracts the x/y tile coordinates from a tile URL.
func ParseTileURL(u string) ([2]int, error) {
	x, ok := queryInt(tileXParam, u)
	if !ok {
		return [2]int{}, &MalformedTileURLError{URL: u, Missing: "x"}
	}
	y, ok := queryInt(tileYParam, u)
	if !ok {
		return [2]int{}, &MalformedTileURLError{URL: u, Missing: "y"}
	}
	return [2]int{x, y}, nil
}

func queryInt(re *regexp.Regexp, u string) (int, bool) {
	m := re.FindStringSubmatch(u)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}
