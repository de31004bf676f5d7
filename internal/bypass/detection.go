package bypass

import (
	"bytes"
	"net/http"
	"strings"
)

// Response is the part of an HTTP response the detectors look at.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Detector reports whether a bot protection product blocked or challenged
// the request, and which one.
type Detector func(res *Response) (detected bool, source string)

// DefaultDetectors returns the detectors for the products we recognise.
func DefaultDetectors() []Detector {
	return []Detector{
		detectCloudflare,
		detectAkamai,
		detectDataDome,
		detectPerimeterX,
	}
}

// Analyze runs res through detectors in order and returns the first product
// that matched, or "".
func Analyze(res *Response, detectors []Detector) string {
	if res == nil {
		return ""
	}
	for _, d := range detectors {
		if detected, source := d(res); detected {
			return source
		}
	}
	return ""
}

func header(h http.Header, key string) string {
	if v := h.Get(key); v != "" {
		return v
	}
	// Non-canonical keys from hand-built maps.
	for k, vals := range h {
		if strings.EqualFold(k, key) && len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}

func serverContains(res *Response, needle string) bool {
	return strings.Contains(strings.ToLower(header(res.Header, "Server")), needle)
}

func bodyContainsAny(res *Response, needles ...string) bool {
	for _, n := range needles {
		if bytes.Contains(res.Body, []byte(n)) {
			return true
		}
	}
	return false
}

// Cloudflare challenges come back as 403 or 503.
func detectCloudflare(res *Response) (bool, string) {
	if res.StatusCode != http.StatusForbidden && res.StatusCode != http.StatusServiceUnavailable {
		return false, ""
	}
	if serverContains(res, "cloudflare") ||
		bodyContainsAny(res, "cf-browser-verification", "cloudflare-nginx", "cf-turnstile", "Attention Required! | Cloudflare") {
		return true, "Cloudflare"
	}
	return false, ""
}

func detectAkamai(res *Response) (bool, string) {
	if res.StatusCode != http.StatusForbidden {
		return false, ""
	}
	if serverContains(res, "akamai") {
		return true, "Akamai"
	}
	// Generic "Access Denied ... Reference #" block page.
	if bodyContainsAny(res, "Reference #") && bodyContainsAny(res, "Access Denied") {
		return true, "Akamai"
	}
	return false, ""
}

func detectDataDome(res *Response) (bool, string) {
	if res.StatusCode != http.StatusForbidden {
		return false, ""
	}
	if serverContains(res, "datadome") ||
		header(res.Header, "X-DataDome") != "" ||
		header(res.Header, "X-DataDome-Response") != "" ||
		bodyContainsAny(res, "geo.captcha-delivery.com", "datadome") {
		return true, "DataDome"
	}
	return false, ""
}

func detectPerimeterX(res *Response) (bool, string) {
	if res.StatusCode != http.StatusForbidden {
		return false, ""
	}
	if header(res.Header, "X-Px-Captcha") != "" ||
		bodyContainsAny(res, "client.perimeterx.net", "px-captcha", "_pxBlock") {
		return true, "PerimeterX"
	}
	return false, ""
}
