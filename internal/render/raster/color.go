package raster

import (
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
)

// ParseColor understands #rgb, #rrggbb, #rrggbbaa, CSS color names and
// "transparent". Anything else is black.
func ParseColor(s string) gg.RGBA {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "transparent" || s == "none":
		return gg.RGBA{}
	case strings.HasPrefix(s, "#"):
		return gg.Hex(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return gg.FromColor(c)
	}
	return gg.RGB(0, 0, 0)
}

func withAlpha(c gg.RGBA, alpha float64) gg.RGBA {
	c.A *= alpha
	return c
}
