// Package fingerprint provides pure lookup and validation tables for
// browser fingerprint consistency: region to locale/timezone mappings,
// realistic screen and locale distributions, and cross-checks that catch
// the mismatches anti-bot systems key on.
//
// The package holds no state and performs no I/O; it is consumed by the
// configuration layer, never by the session lifecycle.
package fingerprint

import (
	"sort"
	"strings"
)

// Region describes the expected locale and timezone for a country.
type Region struct {
	// Locale is the dominant browser locale for the region.
	Locale string

	// Timezone is the default timezone.
	Timezone string

	// ValidTimezones lists every timezone plausible for the region.
	ValidTimezones []string
}

// regions maps ISO 3166-1 alpha-2 country codes to their configuration.
var regions = map[string]Region{
	// North America
	"US": {"en-US", "America/New_York", []string{
		"America/New_York", "America/Chicago", "America/Denver", "America/Los_Angeles",
		"America/Phoenix", "America/Anchorage", "Pacific/Honolulu",
	}},
	"CA": {"en-CA", "America/Toronto", []string{
		"America/Toronto", "America/Vancouver", "America/Edmonton", "America/Winnipeg",
	}},
	"MX": {"es-MX", "America/Mexico_City", []string{
		"America/Mexico_City", "America/Cancun", "America/Tijuana",
	}},

	// South America
	"BR": {"pt-BR", "America/Sao_Paulo", []string{
		"America/Sao_Paulo", "America/Rio_Branco", "America/Manaus", "America/Recife",
	}},
	"AR": {"es-AR", "America/Buenos_Aires", []string{
		"America/Buenos_Aires", "America/Argentina/Buenos_Aires",
	}},
	"CL": {"es-CL", "America/Santiago", []string{"America/Santiago"}},
	"CO": {"es-CO", "America/Bogota", []string{"America/Bogota"}},
	"PE": {"es-PE", "America/Lima", []string{"America/Lima"}},

	// Europe
	"GB": {"en-GB", "Europe/London", []string{"Europe/London"}},
	"DE": {"de-DE", "Europe/Berlin", []string{"Europe/Berlin"}},
	"FR": {"fr-FR", "Europe/Paris", []string{"Europe/Paris"}},
	"ES": {"es-ES", "Europe/Madrid", []string{"Europe/Madrid"}},
	"IT": {"it-IT", "Europe/Rome", []string{"Europe/Rome"}},
	"PT": {"pt-PT", "Europe/Lisbon", []string{"Europe/Lisbon"}},
	"NL": {"nl-NL", "Europe/Amsterdam", []string{"Europe/Amsterdam"}},
	"BE": {"nl-BE", "Europe/Brussels", []string{"Europe/Brussels"}},
	"AT": {"de-AT", "Europe/Vienna", []string{"Europe/Vienna"}},
	"CH": {"de-CH", "Europe/Zurich", []string{"Europe/Zurich"}},
	"PL": {"pl-PL", "Europe/Warsaw", []string{"Europe/Warsaw"}},
	"SE": {"sv-SE", "Europe/Stockholm", []string{"Europe/Stockholm"}},
	"NO": {"nb-NO", "Europe/Oslo", []string{"Europe/Oslo"}},
	"DK": {"da-DK", "Europe/Copenhagen", []string{"Europe/Copenhagen"}},
	"FI": {"fi-FI", "Europe/Helsinki", []string{"Europe/Helsinki"}},
	"RU": {"ru-RU", "Europe/Moscow", []string{
		"Europe/Moscow", "Europe/Kaliningrad", "Asia/Yekaterinburg", "Asia/Vladivostok",
	}},
	"UA": {"uk-UA", "Europe/Kiev", []string{"Europe/Kiev", "Europe/Kyiv"}},
	"CZ": {"cs-CZ", "Europe/Prague", []string{"Europe/Prague"}},
	"GR": {"el-GR", "Europe/Athens", []string{"Europe/Athens"}},
	"TR": {"tr-TR", "Europe/Istanbul", []string{"Europe/Istanbul"}},

	// Asia
	"JP": {"ja-JP", "Asia/Tokyo", []string{"Asia/Tokyo"}},
	"CN": {"zh-CN", "Asia/Shanghai", []string{"Asia/Shanghai", "Asia/Hong_Kong"}},
	"KR": {"ko-KR", "Asia/Seoul", []string{"Asia/Seoul"}},
	"IN": {"hi-IN", "Asia/Kolkata", []string{"Asia/Kolkata", "Asia/Calcutta"}},
	"SG": {"en-SG", "Asia/Singapore", []string{"Asia/Singapore"}},
	"HK": {"zh-HK", "Asia/Hong_Kong", []string{"Asia/Hong_Kong"}},
	"TW": {"zh-TW", "Asia/Taipei", []string{"Asia/Taipei"}},
	"TH": {"th-TH", "Asia/Bangkok", []string{"Asia/Bangkok"}},
	"VN": {"vi-VN", "Asia/Ho_Chi_Minh", []string{"Asia/Ho_Chi_Minh", "Asia/Saigon"}},
	"ID": {"id-ID", "Asia/Jakarta", []string{"Asia/Jakarta"}},
	"MY": {"ms-MY", "Asia/Kuala_Lumpur", []string{"Asia/Kuala_Lumpur"}},
	"PH": {"fil-PH", "Asia/Manila", []string{"Asia/Manila"}},
	"AE": {"ar-AE", "Asia/Dubai", []string{"Asia/Dubai"}},
	"SA": {"ar-SA", "Asia/Riyadh", []string{"Asia/Riyadh"}},
	"IL": {"he-IL", "Asia/Jerusalem", []string{"Asia/Jerusalem", "Asia/Tel_Aviv"}},

	// Oceania
	"AU": {"en-AU", "Australia/Sydney", []string{
		"Australia/Sydney", "Australia/Melbourne", "Australia/Brisbane", "Australia/Perth",
	}},
	"NZ": {"en-NZ", "Pacific/Auckland", []string{"Pacific/Auckland"}},

	// Africa
	"ZA": {"en-ZA", "Africa/Johannesburg", []string{"Africa/Johannesburg"}},
	"EG": {"ar-EG", "Africa/Cairo", []string{"Africa/Cairo"}},
	"NG": {"en-NG", "Africa/Lagos", []string{"Africa/Lagos"}},
	"KE": {"en-KE", "Africa/Nairobi", []string{"Africa/Nairobi"}},
}

// multilingualRegions are countries where several locale languages are
// plausible, so locale/region language mismatches are not flagged.
var multilingualRegions = map[string]bool{
	"CA": true, "CH": true, "BE": true, "SG": true, "IN": true,
}

// RegionFor returns the configuration for an ISO 3166-1 alpha-2 country
// code. Lookup is case-insensitive.
func RegionFor(code string) (Region, bool) {
	r, ok := regions[strings.ToUpper(code)]
	return r, ok
}

// SupportedRegions lists all known region codes in sorted order.
func SupportedRegions() []string {
	codes := make([]string, 0, len(regions))
	for code := range regions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
