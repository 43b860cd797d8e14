package menuscan

import (
	"regexp"
	"strconv"
	"strings"
)

// Candidate is one menu line the scanner believes is an item with a price.
type Candidate struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

// priceRE matches a trailing price: optional currency marker, digits with
// optional thousands grouping and an optional two-digit decimal part.
var priceRE = regexp.MustCompile(`(?i)(?:rs\.?|rp|\$|€|£|₹)?\s*([0-9]{1,3}(?:[.,][0-9]{3})+|[0-9]+)(?:[.,]([0-9]{2}))?\s*$`)

var noiseRE = regexp.MustCompile(`[^a-zA-Z ]`)

// ParseLines turns raw OCR text into item candidates. A line qualifies when
// it ends in something price-shaped and keeps at least two letters of name
// once the price and noise are stripped.
func ParseLines(text string) []Candidate {
	candidates := make([]Candidate, 0)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		loc := priceRE.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}

		cents, ok := parsePrice(line[loc[2]:loc[3]], submatch(line, loc, 2))
		if !ok {
			continue
		}

		name := cleanName(line[:loc[0]])
		if len(name) < 2 {
			continue
		}

		candidates = append(candidates, Candidate{Name: name, PriceCents: cents})
	}

	return candidates
}

func submatch(line string, loc []int, n int) string {
	if loc[2*n] < 0 {
		return ""
	}
	return line[loc[2*n]:loc[2*n+1]]
}

// parsePrice converts the matched number into cents. Grouped digits
// ("12.000") are whole units; an explicit two-digit decimal part is cents.
func parsePrice(whole string, decimals string) (int64, bool) {
	digits := strings.NewReplacer(".", "", ",", "").Replace(whole)
	if digits == "" {
		return 0, false
	}

	units, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || units <= 0 {
		return 0, false
	}

	cents := units * 100
	if decimals != "" {
		d, err := strconv.ParseInt(decimals, 10, 64)
		if err != nil {
			return 0, false
		}
		cents += d
	}

	return cents, true
}

// cleanName strips OCR noise and dot leaders from the name part of a line.
func cleanName(raw string) string {
	raw = noiseRE.ReplaceAllString(raw, " ")
	return strings.Join(strings.Fields(raw), " ")
}
