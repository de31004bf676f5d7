package analyzer

import "strings"

// NormalizeDomain lower-cases and trims a host and strips one leading "www.".
func NormalizeDomain(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimPrefix(s, "www.")
}

// DomainFromURL returns the normalised host of a listing URL, taken as the
// third "/"-separated segment. It returns "" when the URL has no such segment.
func DomainFromURL(u string) string {
	return NormalizeDomain(HostSegment(u))
}

// HostSegment returns the raw third "/"-separated segment of u.
func HostSegment(u string) string {
	parts := strings.SplitN(u, "/", 4)
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}
