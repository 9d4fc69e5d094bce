package fingerprint

import "math/rand"

// Screen is a display resolution in pixels.
type Screen struct {
	Width  int
	Height int
}

// ScreenConstraints bound RealisticScreen's selection. Zero fields are
// unconstrained.
type ScreenConstraints struct {
	MinWidth  int
	MaxWidth  int
	MinHeight int
	MaxHeight int
}

type weightedScreen struct {
	Screen
	weight int
}

// commonScreens holds desktop resolutions weighted by market share.
var commonScreens = []weightedScreen{
	{Screen{1920, 1080}, 23},
	{Screen{1366, 768}, 15},
	{Screen{1536, 864}, 10},
	{Screen{1440, 900}, 7},
	{Screen{1280, 720}, 6},
	{Screen{2560, 1440}, 5},
	{Screen{1600, 900}, 4},
	{Screen{1280, 800}, 3},
	{Screen{3840, 2160}, 3},
	{Screen{1680, 1050}, 2},
}

type weightedLocale struct {
	locale   string
	timezone string
	weight   int
}

// commonLocales holds locale/timezone pairs weighted by usage.
var commonLocales = []weightedLocale{
	{"en-US", "America/New_York", 30},
	{"en-GB", "Europe/London", 8},
	{"de-DE", "Europe/Berlin", 5},
	{"fr-FR", "Europe/Paris", 4},
	{"es-ES", "Europe/Madrid", 3},
	{"pt-BR", "America/Sao_Paulo", 3},
	{"ja-JP", "Asia/Tokyo", 3},
	{"zh-CN", "Asia/Shanghai", 5},
	{"ko-KR", "Asia/Seoul", 2},
	{"it-IT", "Europe/Rome", 2},
}

// RealisticScreen picks a screen resolution by market-share weight,
// restricted to the given constraints. When nothing satisfies them it
// falls back to the most common resolution.
func RealisticScreen(c ScreenConstraints) Screen {
	var valid []weightedScreen
	for _, s := range commonScreens {
		if c.MinWidth > 0 && s.Width < c.MinWidth {
			continue
		}
		if c.MaxWidth > 0 && s.Width > c.MaxWidth {
			continue
		}
		if c.MinHeight > 0 && s.Height < c.MinHeight {
			continue
		}
		if c.MaxHeight > 0 && s.Height > c.MaxHeight {
			continue
		}
		valid = append(valid, s)
	}

	if len(valid) == 0 {
		return Screen{1920, 1080}
	}

	total := 0
	for _, s := range valid {
		total += s.weight
	}
	r := rand.Intn(total)
	for _, s := range valid {
		r -= s.weight
		if r < 0 {
			return s.Screen
		}
	}
	return valid[0].Screen
}

// RealisticLocale returns a locale and timezone for the given region, or
// a usage-weighted random pair when the region is empty or unknown.
func RealisticLocale(region string) (locale, timezone string) {
	if region != "" {
		if r, ok := RegionFor(region); ok {
			return r.Locale, r.Timezone
		}
	}

	total := 0
	for _, l := range commonLocales {
		total += l.weight
	}
	n := rand.Intn(total)
	for _, l := range commonLocales {
		n -= l.weight
		if n < 0 {
			return l.locale, l.timezone
		}
	}
	return commonLocales[0].locale, commonLocales[0].timezone
}
