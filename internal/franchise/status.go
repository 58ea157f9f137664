package franchise

import (
	"strings"
	"time"
)

const (
	StatusHot     = "HOT"
	StatusPopular = "POPULAR"
	StatusNew     = "NEW"
	StatusGrowing = "GROWING"
	StatusStable  = "STABLE"
)

var dateLayouts = []string{"2006-1-2", "2006-1"}

// DeriveStatus labels a franchise from its store count and age.
func DeriveStatus(totalStores int, establishedDate string, now time.Time) string {
	switch {
	case totalStores >= 100:
		return StatusHot
	case totalStores >= 50:
		return StatusPopular
	}

	if established, ok := parseEstablished(establishedDate); ok {
		switch {
		case now.Before(established.AddDate(1, 0, 0)):
			return StatusNew
		case now.Before(established.AddDate(3, 0, 0)) && totalStores >= 10:
			return StatusGrowing
		case !now.Before(established.AddDate(5, 0, 0)):
			return StatusStable
		}
	}

	if totalStores >= 10 {
		return StatusStable
	}
	return StatusNew
}

func parseEstablished(s string) (time.Time, bool) {
	s = strings.Trim(strings.ReplaceAll(strings.TrimSpace(s), ".", "-"), "-")
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
