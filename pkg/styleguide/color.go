package styleguide

import (
	"fmt"
	"strings"
)

type rgb struct {
	r, g, b int
}

func parseHex(s string) (rgb, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return rgb{}, fmt.Errorf("invalid hex color %q", s)
	}
	var c rgb
	if _, err := fmt.Sscanf(h, "%02x%02x%02x", &c.r, &c.g, &c.b); err != nil {
		return rgb{}, fmt.Errorf("invalid hex color %q", s)
	}
	return c, nil
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

// blend mixes c toward target by ratio in [0,1].
func (c rgb) blend(target rgb, ratio float64) rgb {
	mix := func(a, b int) int {
		v := int(float64(a) + (float64(b)-float64(a))*ratio)
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		return v
	}
	return rgb{mix(c.r, target.r), mix(c.g, target.g), mix(c.b, target.b)}
}

var (
	white = rgb{255, 255, 255}
	black = rgb{0, 0, 0}
)

// scaleSteps maps shade keys to a blend: positive ratios move toward
// white, negative toward black. 500 is the base color unchanged.
var scaleSteps = []struct {
	key   string
	ratio float64
}{
	{"50", 0.92},
	{"100", 0.84},
	{"200", 0.66},
	{"300", 0.48},
	{"400", 0.24},
	{"500", 0},
	{"600", -0.16},
	{"700", -0.32},
	{"800", -0.48},
	{"900", -0.64},
}

// colorScale derives a 50..900 shade map from a base hex color.
// The 500 entry is always the base color verbatim.
func colorScale(base string) (map[string]string, error) {
	c, err := parseHex(base)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(scaleSteps))
	for _, step := range scaleSteps {
		switch {
		case step.ratio == 0:
			out[step.key] = strings.ToLower(strings.TrimSpace(base))
		case step.ratio > 0:
			out[step.key] = c.blend(white, step.ratio).hex()
		default:
			out[step.key] = c.blend(black, -step.ratio).hex()
		}
	}
	return out, nil
}
