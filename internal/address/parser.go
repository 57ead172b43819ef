// Package address parses free-text US postal addresses into discrete fields.
//
// The parsing is heuristic and intentionally limited to the comma-delimited
// shapes produced by the upstream directory service. It should not be
// generalised beyond the documented pattern set.
package address

import (
	"regexp"
	"strings"
)

// Parsed holds the fields extracted from a free-text address. Any field may be
// empty when the input does not carry it.
type Parsed struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Postal string `json:"postal"`
}

var (
	countrySuffixRe = regexp.MustCompile(`(?i),\s*(?:USA|US|United States)\s*$`)
	// city, two-letter state, optional ZIP or ZIP+4, anchored to the end of a segment.
	cityStateZipRe = regexp.MustCompile(`(.+?),\s*([A-Za-z]{2})(?:\s*(\d{5}(?:-\d{4})?))?$`)
	// two-letter state followed by ZIP or ZIP+4, anchored to the end of a segment.
	stateZipRe = regexp.MustCompile(`([A-Za-z]{2})\s*(\d{5}(?:-\d{4})?)$`)
)

// Parse splits a comma-delimited US address into street, city, state, and
// postal code. A trailing country token ("USA", "US", "United States") is
// stripped before parsing. Unparseable inputs degrade to partial results
// rather than errors: a bare "PO Box 9" yields only a street.
func Parse(addr string) Parsed {
	var out Parsed
	addr = strings.TrimSpace(countrySuffixRe.ReplaceAllString(addr, ""))
	if addr == "" {
		return out
	}

	parts := splitSegments(addr)
	if len(parts) == 0 {
		return out
	}

	tail := parts[len(parts)-1]

	// A "<city>, <ST> <zip>" shape embedded in the final segment. Splitting on
	// commas normally removes the embedded comma, so this only fires on inputs
	// whose final segment was re-joined upstream.
	if m := cityStateZipRe.FindStringSubmatchIndex(tail); m != nil {
		out.City = strings.TrimSpace(tail[m[2]:m[3]])
		out.State = strings.TrimSpace(tail[m[4]:m[5]])
		if m[6] >= 0 {
			out.Postal = strings.TrimSpace(tail[m[6]:m[7]])
		}
		remainder := trimSegment(tail[:m[0]])
		head := parts[:len(parts)-1]
		if remainder != "" {
			out.Street = strings.Join(append(append([]string{}, head...), remainder), ", ")
		} else {
			out.Street = strings.Join(head, ", ")
		}
		return out
	}

	if len(parts) >= 3 {
		if m := stateZipRe.FindStringSubmatchIndex(tail); m != nil {
			out.State = strings.TrimSpace(tail[m[2]:m[3]])
			out.Postal = strings.TrimSpace(tail[m[4]:m[5]])
			cityPart := trimSegment(tail[:m[0]])
			if cityPart == "" {
				out.City = parts[len(parts)-2]
				out.Street = strings.Join(parts[:len(parts)-2], ", ")
			} else {
				out.City = cityPart
				out.Street = strings.Join(parts[:len(parts)-1], ", ")
			}
			return out
		}
	}

	out.Street = parts[0]
	if len(parts) > 1 {
		out.City = strings.Join(parts[1:], ", ")
	}
	return out
}

// IsComplete reports whether every field has been resolved.
func (p Parsed) IsComplete() bool {
	return p.Street != "" && p.City != "" && p.State != "" && p.Postal != ""
}

func splitSegments(addr string) []string {
	raw := strings.Split(addr, ",")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// trimSegment drops surrounding whitespace and a dangling trailing comma.
func trimSegment(s string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ","))
}
