package statement

import (
	"regexp"
	"strings"
)

var (
	referencePattern = regexp.MustCompile(`AMC-[A-Z]{3}-\d{10,16}-[A-Z0-9]{6}`)
	// RRRs are twelve digits, often printed in groups of four.
	rrrPattern = regexp.MustCompile(`(?:^|\D)(\d{4}-?\d{4}-?\d{4})(?:\D|$)`)
)

// References returns the payment references and RRRs quoted in a narration.
func References(narration string) (refs, rrrs []string) {
	upper := strings.ToUpper(narration)

	refs = referencePattern.FindAllString(upper, -1)

	for _, m := range rrrPattern.FindAllStringSubmatch(upper, -1) {
		rrrs = append(rrrs, strings.ReplaceAll(m[1], "-", ""))
	}

	return refs, rrrs
}
