// Package pipeline fans out rule-set fetches and collects translated groups.
package pipeline

import (
	"context"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ghost233/clash2rocket/internal/fetcher"
	"github.com/ghost233/clash2rocket/internal/geoip"
	"github.com/ghost233/clash2rocket/internal/policy"
	"github.com/ghost233/clash2rocket/internal/source"
	"github.com/ghost233/clash2rocket/internal/translator"
)

const (
	minConcurrency = 1
	maxConcurrency = 64
)

// Options controls one pipeline run. The output mode itself lives in the
// policy.Mapper the Runner was built with.
type Options struct {
	Concurrency int
	// Dedupe drops exact duplicate lines and IP-CIDR rules already covered
	// by an earlier CIDR within the same group.
	Dedupe bool
	// GeoIP, when set, expands GEOIP rules into concrete CIDR rules.
	GeoIP *geoip.Table
}

// GroupResult is one finalized rule group in declared order.
type GroupResult struct {
	Name   string
	Policy policy.Policy
	Lines  []string
}

// Summary is the end-of-run report shown to the operator.
type Summary struct {
	Groups     int
	Lines      int
	Dropped    int
	FailedURLs []string
}

// Result carries every group's translated lines plus the run summary.
type Result struct {
	Groups  []GroupResult
	Summary Summary
}

// Runner wires the fetcher and policy mapper into the fan-out pipeline.
type Runner struct {
	fetcher *fetcher.Fetcher
	mapper  *policy.Mapper
}

// New creates a Runner.
func New(f *fetcher.Fetcher, m *policy.Mapper) *Runner {
	return &Runner{fetcher: f, mapper: m}
}

// accumulator collects translated lines for one group. Parts are indexed by
// definition position so concurrent completion order never changes output.
type accumulator struct {
	mu    sync.Mutex
	parts [][]string
}

func (a *accumulator) set(i int, lines []string) {
	a.mu.Lock()
	a.parts[i] = lines
	a.mu.Unlock()
}

// Run fetches and translates every group's rule-sets over a bounded worker
// pool, then finalizes groups in their declared order. A failed URL
// contributes nothing and is recorded in the summary; it never aborts the
// run.
func (r *Runner) Run(ctx context.Context, groups []source.Group, opts Options) (*Result, error) {
	conc := opts.Concurrency
	if conc < minConcurrency {
		conc = minConcurrency
	}
	if conc > maxConcurrency {
		conc = maxConcurrency
	}

	accs := make([]*accumulator, len(groups))
	policies := make([]policy.Policy, len(groups))
	for i, grp := range groups {
		accs[i] = &accumulator{parts: make([][]string, len(grp.Defs))}
		policies[i] = r.mapper.PolicyFor(grp.Name)
	}

	var failedMu sync.Mutex
	var failed []string

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(conc)
	for gi, grp := range groups {
		for di, def := range grp.Defs {
			gi, di, def := gi, di, def
			pol := policies[gi]
			eg.Go(func() error {
				body := def.Inline
				if def.URL != "" {
					b, err := r.fetcher.Fetch(ctx, def.URL)
					if err != nil {
						log.Printf("skipping rule-set: %v", err)
						failedMu.Lock()
						failed = append(failed, def.URL)
						failedMu.Unlock()
						return nil
					}
					body = b
				}
				var lines []string
				for _, raw := range strings.Split(body, "\n") {
					if out, ok := translator.Translate(raw, pol); ok {
						lines = append(lines, out)
					}
				}
				accs[gi].set(di, lines)
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Summary: Summary{FailedURLs: failed}}
	for i, grp := range groups {
		var lines []string
		for _, part := range accs[i].parts {
			lines = append(lines, part...)
		}
		if opts.GeoIP != nil {
			lines = expandGeoIP(opts.GeoIP, lines)
		}
		if opts.Dedupe {
			var dropped int
			lines, dropped = dedupe(lines)
			result.Summary.Dropped += dropped
		}
		result.Groups = append(result.Groups, GroupResult{
			Name:   grp.Name,
			Policy: policies[i],
			Lines:  lines,
		})
		result.Summary.Lines += len(lines)
	}
	result.Summary.Groups = len(result.Groups)
	return result, nil
}

func expandGeoIP(table *geoip.Table, lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, table.Expand(line)...)
	}
	return out
}
