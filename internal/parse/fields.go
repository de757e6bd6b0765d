package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// Field parsers for the display strings of the shop table. All of them
// are total: a value that cannot be read yields nil, never a panic and
// never a zero standing in for "unknown". A parsed 0 is a real value
// and callers must treat it differently from nil.

var (
	usesRe    = regexp.MustCompile(`(?i)(\d+)\s*uses`)
	slashRe   = regexp.MustCompile(`^\s*(\d+)\s*/\s*\d+\s*$`)
	bareIntRe = regexp.MustCompile(`^\s*-?\d+\s*$`)
	rangeRe   = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)$`)
)

// ParsePrice reads a display price like "360g" or "1,250g": the
// trailing currency suffix and thousands separators are stripped and
// the remainder parsed as a decimal number.
func ParsePrice(s string) *float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	cleaned = strings.TrimSuffix(strings.TrimSuffix(cleaned, "g"), "G")
	cleaned = strings.TrimSpace(cleaned)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseDurability recognizes, in priority order: "<N> Uses" (case
// insensitive), "<N>/<M>" (numerator only, the max is ignored) and a
// bare integer.
func ParseDurability(s string) *float64 {
	if m := usesRe.FindStringSubmatch(s); m != nil {
		return parseFloatPtr(m[1])
	}
	if m := slashRe.FindStringSubmatch(s); m != nil {
		return parseFloatPtr(m[1])
	}
	if bareIntRe.MatchString(s) {
		return parseFloatPtr(strings.TrimSpace(s))
	}
	return nil
}

// ParseDamage reads the damage cell: "~3.0" (approximate marker) and
// "3.0" give 3.0, a range "3-5" gives the arithmetic mean 4. The
// marker only flags imprecision, so "~3-5" is the same range as "3-5".
func ParseDamage(s string) *float64 {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "~"))
	if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return &v
	}
	if m := rangeRe.FindStringSubmatch(cleaned); m != nil {
		lo, errLo := strconv.ParseFloat(m[1], 64)
		hi, errHi := strconv.ParseFloat(m[2], 64)
		if errLo != nil || errHi != nil {
			return nil
		}
		mean := (lo + hi) / 2
		return &mean
	}
	return nil
}

// ParseReqLevel reads the required-level cell as an integer.
func ParseReqLevel(s string) *int64 {
	if !bareIntRe.MatchString(s) {
		return nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloatPtr(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
