package disclosure

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	unitEok = 100_000_000 // 억
	unitMan = 10_000      // 만
)

var (
	numberPattern   = regexp.MustCompile(`\d+(?:\.\d+)?`)
	trailingPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)$`)
	leadingPattern  = regexp.MustCompile(`^(\d+(?:\.\d+)?)`)
)

// placeholders used by the disclosure filings for "no data".
var noDataSentinels = map[string]struct{}{
	"":   {},
	"..": {},
	"-":  {},
}

// ParseCurrency converts a Korean-locale amount into won. Unit markers add
// up: "1억5000만원" is 150,000,000 and "1억 2,000" is 100,002,000. Anything
// unparsable yields 0.
func ParseCurrency(raw any) int64 {
	switch v := raw.(type) {
	case float64:
		return wonFromFloat(v)
	case int:
		return int64(v)
	case int64:
		return v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return wonFromFloat(f)
	case string:
		return parseCurrencyString(v)
	default:
		return 0
	}
}

// wonFromFloat truncates f, saturating at the int64 range. NaN is 0.
func wonFromFloat(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(f)
	}
}

func parseCurrencyString(s string) int64 {
	s = strings.NewReplacer(",", "", " ", "", "\t", "").Replace(strings.TrimSpace(s))
	if _, ok := noDataSentinels[s]; ok {
		return 0
	}

	var total float64
	var hasUnit bool
	rest := s

	for _, u := range []struct {
		marker string
		scale  float64
	}{
		{"억", unitEok},
		{"만", unitMan},
	} {
		i := strings.Index(rest, u.marker)
		if i < 0 {
			continue
		}
		if n, ok := matchFloat(trailingPattern, rest[:i]); ok {
			total += n * u.scale
			hasUnit = true
		}
		rest = rest[i+len(u.marker):]
	}

	if hasUnit {
		if n, ok := matchFloat(leadingPattern, rest); ok {
			total += n
		}
		return wonFromFloat(math.Round(total))
	}

	n, ok := matchFloat(numberPattern, s)
	if !ok {
		return 0
	}
	return wonFromFloat(n)
}

// ParseRate converts a rate into the 0-100 scale. Fractions (<= 1) are
// scaled up; strings carrying "%" are already percentages.
func ParseRate(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return scaleRate(v)
	case int:
		return scaleRate(float64(v))
	case int64:
		return scaleRate(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return scaleRate(f)
	case string:
		n, ok := matchFloat(numberPattern, strings.ReplaceAll(v, ",", ""))
		if !ok {
			return 0
		}
		if strings.Contains(v, "%") {
			return n
		}
		return n * 100
	default:
		return 0
	}
}

func scaleRate(v float64) float64 {
	if v > 1 {
		return v
	}
	return v * 100
}

// ParseCount reads an integer counter such as "1,234", "120개" or 120.
func ParseCount(raw any) int {
	switch v := raw.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		m := leadingPattern.FindString(s)
		if m == "" {
			return 0
		}
		n, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0
		}
		return int(n)
	default:
		return 0
	}
}

// leadingNumber returns the first numeric token of a label value, e.g. the
// 5 of "5% (월매출 기준)".
func leadingNumber(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case string:
		n, _ := matchFloat(numberPattern, strings.ReplaceAll(v, ",", ""))
		return n
	}
	return 0
}

func matchFloat(p *regexp.Regexp, s string) (float64, bool) {
	m := p.FindStringSubmatch(s)
	if len(m) == 0 {
		return 0, false
	}
	tok := m[len(m)-1]
	n, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
