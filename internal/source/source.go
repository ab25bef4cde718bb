// Package source parses the ACL4SSR-style configuration declaring rule groups.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// ConfigError reports a malformed or unusable source configuration. It is
// fatal: the run cannot proceed without a valid group list.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("source config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("source config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Definition is one entry of a rule group: either a remote rule-set URL or an
// inline rule injected without a fetch (`[]FINAL`, `[]GEOIP,CN`).
type Definition struct {
	URL    string
	Inline string
}

// Group is a named collection of rule-set definitions sharing one target
// policy. Names may contain non-ASCII display glyphs and are preserved
// byte-for-byte.
type Group struct {
	Name string
	Defs []Definition
}

// rulesetRe matches `ruleset=<group name>,<url or special>`. The group name
// never contains a comma; everything after the first comma is the definition.
var rulesetRe = regexp.MustCompile(`^ruleset=([^,]+),(.+)$`)

// Parse extracts the ordered rule groups from an ACL4SSR-style configuration.
// Lines other than ruleset= entries (section headers, proxy-group
// declarations, comments) are ignored. Repeated group names accumulate their
// definitions under the first occurrence.
func Parse(r io.Reader) ([]Group, error) {
	var groups []Group
	index := make(map[string]int)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		m := rulesetRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		def := strings.TrimSpace(m[2])
		if name == "" || def == "" {
			continue
		}

		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		if strings.HasPrefix(def, "[]") {
			groups[i].Defs = append(groups[i].Defs, Definition{Inline: strings.TrimPrefix(def, "[]")})
		} else {
			groups[i].Defs = append(groups[i].Defs, Definition{URL: def})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ConfigError{Err: err}
	}
	if len(groups) == 0 {
		return nil, &ConfigError{Err: fmt.Errorf("no ruleset entries found")}
	}
	return groups, nil
}

// ParseFile reads and parses the configuration at path.
func ParseFile(path string) ([]Group, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	defer f.Close()

	groups, err := Parse(f)
	if err != nil {
		var ce *ConfigError
		if errors.As(err, &ce) {
			ce.Path = path
			return nil, ce
		}
		return nil, &ConfigError{Path: path, Err: err}
	}
	return groups, nil
}
