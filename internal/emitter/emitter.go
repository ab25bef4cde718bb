// Package emitter writes translated rule groups as Shadowrocket files.
package emitter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghost233/clash2rocket/internal/pipeline"
	"github.com/ghost233/clash2rocket/internal/policy"
)

// FullConfName is the output file name in full mode.
const FullConfName = "shadowrocket_full.conf"

// WriteError reports a single output file that could not be written. Other
// files are still attempted; the run reports partial success.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Emitter writes output files into one directory.
type Emitter struct {
	dir string
}

// New creates the output directory if needed and returns an Emitter.
func New(dir string) (*Emitter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Emitter{dir: dir}, nil
}

// EmitList writes one `.list` file per non-empty group, named after the
// group's display name, plus an ALL.list concatenating every group's block in
// declared order. It returns a WriteError per failed file.
func (e *Emitter) EmitList(groups []pipeline.GroupResult) []error {
	var errs []error
	var all strings.Builder

	total := 0
	for _, g := range groups {
		total += len(g.Lines)
	}
	all.WriteString("# Shadowrocket Rules - ALL\n")
	all.WriteString("# Generated by clash2rocket\n")
	all.WriteString(fmt.Sprintf("# Total rules: %d\n\n", total))

	for _, g := range groups {
		if len(g.Lines) == 0 {
			continue
		}
		var b strings.Builder
		b.WriteString(fmt.Sprintf("# Shadowrocket Rules for %s\n", g.Name))
		b.WriteString("# Generated by clash2rocket\n")
		b.WriteString(fmt.Sprintf("# Total rules: %d\n\n", len(g.Lines)))
		for _, line := range g.Lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		if err := e.writeFile(g.Name+".list", b.String()); err != nil {
			errs = append(errs, err)
		}

		all.WriteString("# " + g.Name + "\n")
		for _, line := range g.Lines {
			all.WriteString(line)
			all.WriteByte('\n')
		}
		all.WriteByte('\n')
	}

	if err := e.writeFile("ALL.list", all.String()); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// EmitFull writes the consolidated configuration: a static General section,
// every group's rules under comment headers followed by a trailing FINAL, a
// static Host section and a static URL Rewrite section.
func (e *Emitter) EmitFull(groups []pipeline.GroupResult, final policy.Policy) []error {
	var b strings.Builder
	b.WriteString(generalSection)
	b.WriteByte('\n')

	b.WriteString("[Rule]\n")
	for _, g := range groups {
		if len(g.Lines) == 0 {
			continue
		}
		b.WriteString("# " + g.Name + "\n")
		for _, line := range g.Lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	b.WriteString("FINAL," + final.Token() + "\n\n")

	b.WriteString(hostSection)
	b.WriteByte('\n')
	b.WriteString(rewriteSection)

	if err := e.writeFile(FullConfName, b.String()); err != nil {
		return []error{err}
	}
	return nil
}

// writeFile is all-or-nothing per file: the content lands in a tmp file that
// is renamed into place.
func (e *Emitter) writeFile(name, content string) error {
	path := filepath.Join(e.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

const generalSection = `[General]
bypass-system = true
skip-proxy = 192.168.0.0/16, 10.0.0.0/8, 172.16.0.0/12, localhost, *.local, captive.apple.com
tun-excluded-routes = 10.0.0.0/8, 100.64.0.0/10, 127.0.0.0/8, 169.254.0.0/16, 172.16.0.0/12, 192.0.0.0/24, 192.0.2.0/24, 192.88.99.0/24, 192.168.0.0/16, 198.51.100.0/24, 203.0.113.0/24, 224.0.0.0/4, 255.255.255.255/32
dns-server = system
ipv6 = true
prefer-ipv6 = false
dns-fallback-system = false
dns-direct-system = false
icmp-auto-reply = true
always-reject-url-rewrite = false
private-ip-answer = true
dns-direct-fallback-proxy = true
`

const hostSection = `[Host]
localhost = 127.0.0.1
`

const rewriteSection = `[URL Rewrite]
^https?://(www.)?g.cn https://www.google.com 302
^https?://(www.)?google.cn https://www.google.com 302
`
