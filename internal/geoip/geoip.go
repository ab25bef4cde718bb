// Package geoip expands GEOIP rules into concrete CIDR rules from a MaxMind DB.
package geoip

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/oschwald/maxminddb-golang"
)

// Table is an in-memory index of country code to CIDR list, built once from
// an MMDB file.
type Table struct {
	mu    sync.RWMutex
	cidrs map[string][]string
}

// New returns an empty Table.
func New() *Table {
	return &Table{cidrs: make(map[string][]string)}
}

// LoadFile builds a Table from the MMDB at path.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mmdb: %w", err)
	}
	t := New()
	if err := t.Load(data); err != nil {
		return nil, err
	}
	return t, nil
}

// Load parses the MMDB bytes and rebuilds the index.
func (t *Table) Load(data []byte) error {
	db, err := maxminddb.FromBytes(data)
	if err != nil {
		return fmt.Errorf("failed to open mmdb: %w", err)
	}
	defer db.Close()

	index := make(map[string][]string)
	networks := db.Networks(maxminddb.SkipAliasedNetworks)
	for networks.Next() {
		var record interface{}
		subnet, err := networks.Network(&record)
		if err != nil {
			continue
		}
		code := countryCode(record)
		if code == "" {
			continue
		}
		index[code] = append(index[code], subnet.String())
	}

	t.mu.Lock()
	t.cidrs = index
	t.mu.Unlock()
	return nil
}

// countryCode pulls an ISO country code out of the various record shapes
// found in GeoLite and meta-rules databases.
func countryCode(record interface{}) string {
	switch v := record.(type) {
	case string:
		return strings.ToUpper(v)
	case map[string]interface{}:
		if c, ok := v["country"].(map[string]interface{}); ok {
			if iso, ok := c["iso_code"].(string); ok {
				return strings.ToUpper(iso)
			}
		}
		if iso, ok := v["iso_code"].(string); ok {
			return strings.ToUpper(iso)
		}
	}
	return ""
}

// CIDRs returns the networks registered for a country code.
func (t *Table) CIDRs(code string) ([]string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cidrs, ok := t.cidrs[strings.ToUpper(code)]
	return cidrs, ok
}

// Expand rewrites a translated GEOIP rule line into IP-CIDR lines carrying
// the same policy. Lines of any other kind, and GEOIP lines whose country is
// not in the table, pass through unchanged.
func (t *Table) Expand(line string) []string {
	parts := strings.Split(line, ",")
	if len(parts) < 3 || parts[0] != "GEOIP" {
		return []string{line}
	}
	cidrs, ok := t.CIDRs(parts[1])
	if !ok {
		return []string{line}
	}
	token := parts[2]
	out := make([]string, 0, len(cidrs))
	for _, cidr := range cidrs {
		kind := "IP-CIDR"
		if strings.Contains(cidr, ":") {
			kind = "IP-CIDR6"
		}
		out = append(out, kind+","+cidr+","+token+",no-resolve")
	}
	return out
}
