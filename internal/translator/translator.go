// Package translator rewrites Clash rule lines into Shadowrocket rule lines.
package translator

import (
	"strings"

	"github.com/ghost233/clash2rocket/internal/policy"
)

// passthroughTypes are rule kinds whose match field carries over unchanged,
// with only the trailing policy token substituted.
var passthroughTypes = map[string]bool{
	"DOMAIN":         true,
	"DOMAIN-SUFFIX":  true,
	"DOMAIN-KEYWORD": true,
	"GEOIP":          true,
	"USER-AGENT":     true,
	"PROCESS-NAME":   true,
}

// cidrTypes additionally preserve a trailing no-resolve flag.
var cidrTypes = map[string]bool{
	"IP-CIDR":  true,
	"IP-CIDR6": true,
}

// Translate converts one line of Clash rule text into Shadowrocket syntax
// with the given target policy. It is pure and performs no I/O. The second
// return is false for blank lines, comments and unsupported rule kinds,
// which are dropped silently.
func Translate(raw string, pol policy.Policy) (string, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
		return "", false
	}

	parts := strings.Split(line, ",")
	kind := strings.TrimSpace(parts[0])
	token := pol.Token()

	// MATCH (and an already-converted FINAL) always renders as FINAL,<policy>
	// regardless of any source trailing content.
	if kind == "FINAL" || kind == "MATCH" {
		return "FINAL," + token, true
	}

	if len(parts) < 2 {
		return "", false
	}
	value := strings.TrimSpace(parts[1])
	if value == "" {
		return "", false
	}

	switch {
	case passthroughTypes[kind]:
		return kind + "," + value + "," + token, true
	case cidrTypes[kind]:
		for _, extra := range parts[2:] {
			if strings.EqualFold(strings.TrimSpace(extra), "no-resolve") {
				return kind + "," + value + "," + token + ",no-resolve", true
			}
		}
		return kind + "," + value + "," + token, true
	}

	return "", false
}
