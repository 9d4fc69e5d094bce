package fingerprint

import (
	"fmt"
	"strings"
)

// Profile is the observable subset of a browser fingerprint checked for
// internal consistency.
type Profile struct {
	UserAgent     string
	Platform      string
	ScreenWidth   int
	ScreenHeight  int
	WebGLVendor   string
	WebGLRenderer string
}

// ValidateConsistency cross-checks fingerprint attributes and returns a
// warning per detected mismatch. An empty slice means the profile is
// internally consistent.
//
// The checks target the contradictions detection systems look for:
// OS claimed by the user agent versus the navigator platform, mobile
// user agents on desktop screens, Apple GPUs outside Apple platforms,
// and physically implausible screen geometry.
func ValidateConsistency(p Profile) []string {
	var warnings []string
	ua := strings.ToLower(p.UserAgent)
	platform := strings.ToLower(p.Platform)

	if strings.Contains(ua, "windows") && strings.Contains(platform, "mac") {
		warnings = append(warnings, "UA says Windows but platform says Mac")
	}
	if strings.Contains(ua, "mac os") && strings.Contains(platform, "win") {
		warnings = append(warnings, "UA says macOS but platform says Windows")
	}
	if strings.Contains(ua, "linux") &&
		(strings.Contains(platform, "mac") || strings.Contains(platform, "win")) {
		warnings = append(warnings, "UA says Linux but platform doesn't match")
	}

	mobile := strings.Contains(ua, "mobile") || strings.Contains(ua, "android") ||
		strings.Contains(ua, "iphone")
	if mobile {
		if p.ScreenWidth > 1024 || p.ScreenHeight > 1024 {
			warnings = append(warnings, "Mobile UA but desktop-sized screen")
		}
	} else if p.ScreenWidth < 800 && p.ScreenHeight < 600 {
		warnings = append(warnings, "Desktop UA but very small screen")
	}

	if p.WebGLVendor != "" && p.WebGLRenderer != "" {
		vendor := strings.ToLower(p.WebGLVendor)
		renderer := strings.ToLower(p.WebGLRenderer)

		if strings.Contains(vendor, "apple") || strings.Contains(renderer, "apple") {
			if strings.Contains(ua, "windows") || strings.Contains(ua, "linux") {
				warnings = append(warnings, "Apple GPU with non-Apple OS")
			}
		}
		for _, gpu := range []string{"nvidia", "amd", "radeon", "geforce"} {
			if strings.Contains(renderer, gpu) &&
				(strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad")) {
				warnings = append(warnings, "Desktop GPU with iOS device")
				break
			}
		}
	}

	if p.ScreenWidth < 320 || p.ScreenHeight < 240 {
		warnings = append(warnings, "Screen too small to be realistic")
	}
	if p.ScreenWidth > 7680 || p.ScreenHeight > 4320 {
		warnings = append(warnings, "Screen too large to be realistic")
	}
	if p.ScreenWidth > p.ScreenHeight*4 {
		warnings = append(warnings, "Unrealistic aspect ratio (too wide)")
	}

	return warnings
}

// ValidateRegionConsistency checks that locale and timezone plausibly
// match the region's geography. Unknown or empty regions yield no
// warnings.
func ValidateRegionConsistency(region, locale, timezone string) []string {
	var warnings []string
	if region == "" {
		return warnings
	}

	cfg, ok := RegionFor(region)
	if !ok {
		return warnings
	}

	if timezone != "" && !contains(cfg.ValidTimezones, timezone) {
		warnings = append(warnings, fmt.Sprintf(
			"Timezone '%s' does not match region '%s' (expected one of: %s)",
			timezone, region, strings.Join(cfg.ValidTimezones, ", ")))
	}

	if locale != "" && !multilingualRegions[strings.ToUpper(region)] {
		if language(locale) != language(cfg.Locale) {
			warnings = append(warnings, fmt.Sprintf(
				"Locale '%s' language does not match region '%s' (expected language: %s)",
				locale, region, language(cfg.Locale)))
		}
	}

	return warnings
}

// AutoConfigureRegion resolves the locale and timezone to use for a
// region: provided values win but are validated, missing values fall back
// to the region defaults. Unknown regions fall back to en-US/New York.
func AutoConfigureRegion(region, locale, timezone string) (finalLocale, finalTimezone string, warnings []string) {
	cfg, ok := RegionFor(region)
	if !ok {
		if locale == "" {
			locale = "en-US"
		}
		if timezone == "" {
			timezone = "America/New_York"
		}
		return locale, timezone, nil
	}

	finalLocale = locale
	if finalLocale == "" {
		finalLocale = cfg.Locale
	}
	finalTimezone = timezone
	if finalTimezone == "" {
		finalTimezone = cfg.Timezone
	}

	if timezone != "" && !contains(cfg.ValidTimezones, timezone) {
		warnings = append(warnings, fmt.Sprintf(
			"Timezone mismatch: using '%s' but region '%s' expects one of: %s",
			timezone, region, strings.Join(cfg.ValidTimezones, ", ")))
	}
	if locale != "" && !multilingualRegions[strings.ToUpper(region)] &&
		language(locale) != language(cfg.Locale) {
		warnings = append(warnings, fmt.Sprintf(
			"Locale mismatch: using '%s' but region '%s' typically uses '%s'",
			locale, region, cfg.Locale))
	}

	return finalLocale, finalTimezone, warnings
}

// language extracts the language part of a locale like "pt-BR".
func language(locale string) string {
	if i := strings.IndexByte(locale, '-'); i >= 0 {
		return locale[:i]
	}
	return locale
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
