// Package baseurl resolves the API origin the client talks to.
package baseurl

import (
	"net"
	"net/url"
	"strings"
)

const (
	// Production is the fixed API origin used in production mode.
	Production = "https://api.promorang.co"
	// LocalDefault is used when neither an override nor an origin is known.
	LocalDefault = "http://localhost:3001"

	ModeProduction  = "production"
	ModeDevelopment = "development"
)

// Settings are the inputs to Resolve.
type Settings struct {
	// Mode is the runtime environment ("production", "development", ...).
	Mode string
	// Override is an explicitly configured API base.
	Override string
	// Origin is the origin the caller itself runs on, when it has one.
	Origin string
}

// Resolve picks the API base. The result never ends in "/api" or "/".
func Resolve(s Settings) string {
	if strings.EqualFold(strings.TrimSpace(s.Mode), ModeProduction) {
		return trim(Production)
	}

	override := strings.TrimSpace(s.Override)
	origin := strings.TrimSpace(s.Origin)

	switch {
	case override != "" && origin != "" && IsLoopback(override) && !IsLoopback(origin):
		// A loopback override is unreachable from a non-loopback origin.
		return trim(origin)
	case override != "":
		return trim(override)
	case origin != "":
		return trim(origin)
	default:
		return trim(LocalDefault)
	}
}

// IsLoopback reports whether raw points at a loopback host.
func IsLoopback(raw string) bool {
	host := raw
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host = u.Hostname()
	} else if h, _, err := net.SplitHostPort(raw); err == nil {
		host = h
	}
	host = strings.Trim(strings.ToLower(host), "[]")

	if host == "localhost" || strings.HasSuffix(host, ".localhost") || host == "0.0.0.0" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func trim(base string) string {
	base = strings.TrimRight(base, "/")
	for strings.HasSuffix(strings.ToLower(base), "/api") {
		base = strings.TrimRight(base[:len(base)-len("/api")], "/")
	}
	return base
}
