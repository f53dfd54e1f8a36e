// Package palette maps a mood and intensity to a three-color UI scheme.
// All functions are pure.
package palette

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/jsamuelsen/mood-quote-service/internal/domain"
)

const (
	// maxLightnessShift is the primary lightness reduction at intensity 1.
	maxLightnessShift  = 20.0
	secondaryHueShift  = 20.0
	secondaryLightDiff = 10.0

	// DefaultIntensity applies when there is no analysis to take one from.
	DefaultIntensity = 0.5
)

// HSL is a color in hue (degrees), saturation and lightness (percent).
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// String renders the color as a CSS hsl() value.
func (c HSL) String() string {
	return fmt.Sprintf("hsl(%s, %s%%, %s%%)", num(c.H), num(c.S), num(c.L))
}

// Hex renders the color as #rrggbb.
func (c HSL) Hex() string {
	return colorful.Hsl(math.Mod(c.H, 360), c.S/100, c.L/100).Clamped().Hex()
}

// Scheme is the set of colors used to render a mood.
type Scheme struct {
	Primary   HSL `json:"primary"`
	Secondary HSL `json:"secondary"`
	Text      HSL `json:"text"`
}

var bases = map[domain.Mood]HSL{
	domain.MoodPositive: {H: 120, S: 40, L: 80},
	domain.MoodNeutral:  {H: 210, S: 10, L: 85},
	domain.MoodNegative: {H: 0, S: 60, L: 80},
}

var (
	darkText  = HSL{H: 0, S: 0, L: 15}
	lightText = HSL{H: 0, S: 0, L: 95}
)

// ColorsFor returns the scheme for mood at the given intensity. Intensity is
// clamped to [0,1]; NaN is treated as DefaultIntensity. Unknown moods render
// as neutral.
func ColorsFor(mood domain.Mood, intensity float64) Scheme {
	base, ok := bases[mood]
	if !ok {
		mood = domain.MoodNeutral
		base = bases[mood]
	}

	switch {
	case math.IsNaN(intensity):
		intensity = DefaultIntensity
	case intensity < 0:
		intensity = 0
	case intensity > 1:
		intensity = 1
	}

	primary := base
	primary.L = base.L - intensity*maxLightnessShift

	secondary := base
	secondary.H = base.H + secondaryHueShift
	if mood == domain.MoodPositive {
		secondary.L = base.L + secondaryLightDiff
	} else {
		secondary.L = base.L - secondaryLightDiff
	}

	text := darkText
	if mood == domain.MoodNegative {
		text = lightText
	}

	return Scheme{Primary: primary, Secondary: secondary, Text: text}
}

// ForAnalysis returns the scheme for an analysis; nil maps to neutral at
// DefaultIntensity.
func ForAnalysis(a *domain.MoodAnalysis) Scheme {
	if a == nil {
		return ColorsFor(domain.MoodNeutral, DefaultIntensity)
	}

	return ColorsFor(a.Mood, a.Intensity)
}

var hslPattern = regexp.MustCompile(`^\s*hsl\(\s*(\d+(?:\.\d+)?)\s*,\s*(\d+(?:\.\d+)?)%\s*,\s*(\d+(?:\.\d+)?)%\s*\)\s*$`)

// ShouldUseLightText reports whether text on the given hsl() background
// should be light. Unparseable input returns false.
func ShouldUseLightText(background string) bool {
	m := hslPattern.FindStringSubmatch(background)
	if m == nil {
		return false
	}

	l, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return false
	}

	return l < 50
}

// num formats with at most two decimals and no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
