package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Supreme Court case numbers, e.g. "2025-106"
	supremeNumberRE = regexp.MustCompile(`\b\d{4}-\d+\b`)

	// Embedded links to Court of Appeal ruling pages
	crossRefLinkRE = regexp.MustCompile(`https?://[^\s"'<>]+/domar-og-urskurdir/domur-urskurdur/[^\s"'<>]+`)

	// Court of Appeal case numbers, e.g. "12/2020"
	appealsNumberRE = regexp.MustCompile(`\b(\d+)/(20\d{2})\b`)
)

// FirstSupremeNumber returns the first Supreme Court case number in the
// document, or "" when none is present.
func FirstSupremeNumber(text string) string {
	return supremeNumberRE.FindString(text)
}

// FirstCrossRefLink returns the first embedded cross-reference URL whose
// host belongs to the allowed host family (the host itself or any
// subdomain). A first match on the wrong host discards the link entirely;
// later matches are not considered.
func FirstCrossRefLink(text string, allowedHost string) string {
	match := crossRefLinkRE.FindString(text)
	if match == "" {
		return ""
	}

	parsed, err := url.Parse(match)
	if err != nil {
		return ""
	}
	if !hostInFamily(parsed.Hostname(), allowedHost) {
		return ""
	}

	return match
}

// FirstAppealsNumber returns the first "number/year" case number whose year
// is at or after cutoffYear, in document order, or "" when none qualifies.
func FirstAppealsNumber(text string, cutoffYear int) string {
	for _, m := range appealsNumberRE.FindAllStringSubmatch(text, -1) {
		year, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if year >= cutoffYear {
			return m[1] + "/" + m[2]
		}
	}
	return ""
}

// hostInFamily reports whether host equals family or is a subdomain of it
func hostInFamily(host string, family string) bool {
	host = strings.ToLower(host)
	family = strings.ToLower(family)
	return host == family || strings.HasSuffix(host, "."+family)
}
