// clash2rocket converts Clash rule-set lists declared in an ACL4SSR-style
// configuration into Shadowrocket rule files or a full configuration.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/fatih/color"

	"github.com/ghost233/clash2rocket/internal/cache"
	"github.com/ghost233/clash2rocket/internal/config"
	"github.com/ghost233/clash2rocket/internal/emitter"
	"github.com/ghost233/clash2rocket/internal/fetcher"
	"github.com/ghost233/clash2rocket/internal/geoip"
	"github.com/ghost233/clash2rocket/internal/pipeline"
	"github.com/ghost233/clash2rocket/internal/policy"
	"github.com/ghost233/clash2rocket/internal/source"
)

func main() {
	settingsPath := flag.String("config", "", "Settings file (INI, optional)")
	iniPath := flag.String("ini", "", "Source ACL4SSR configuration file")
	mode := flag.String("mode", "", "Output mode: list or full")
	concurrency := flag.Int("concurrency", 0, "Number of simultaneous downloads")
	outDir := flag.String("out", "", "Output directory")
	cacheDir := flag.String("cache", "", "Cache directory")
	dedupe := flag.Bool("dedupe", false, "Drop duplicate and covered rules within a group")
	geoipDB := flag.String("geoip-db", "", "MaxMind DB to expand GEOIP rules (optional)")
	noCache := flag.Bool("no-cache", false, "Ignore cached rule-sets and re-download")
	flag.Parse()

	var cfg config.AppConfig
	if err := cfg.Parse(*settingsPath); err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *iniPath != "" {
		cfg.General.Source = *iniPath
	}
	if *mode != "" {
		cfg.General.Mode = *mode
	}
	if *concurrency > 0 {
		cfg.General.Concurrency = *concurrency
	}
	if *outDir != "" {
		cfg.General.OutputDir = *outDir
	}
	if *cacheDir != "" {
		cfg.General.CacheDir = *cacheDir
	}
	if *dedupe {
		cfg.Output.Dedupe = true
	}
	if *geoipDB != "" {
		cfg.Output.GeoIPDB = *geoipDB
	}

	runMode, ok := policy.ParseMode(cfg.General.Mode)
	if !ok {
		log.Fatalf("Unknown mode %q (want list or full)", cfg.General.Mode)
	}

	groups, err := source.ParseFile(cfg.General.Source)
	if err != nil {
		log.Fatalf("Failed to parse source configuration: %v", err)
	}
	log.Printf("Parsed %d rule groups from %s", len(groups), cfg.General.Source)

	store, err := cache.NewDirStore(cfg.General.CacheDir)
	if err != nil {
		log.Fatalf("Failed to create cache directory: %v", err)
	}

	f := fetcher.New(store, fetcher.Options{
		Timeout:           time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		Attempts:          cfg.Fetch.Attempts,
		RequestsPerSecond: float64(cfg.Fetch.RequestsPerSecond),
		UserAgent:         cfg.Fetch.UserAgent,
		SkipCacheRead:     *noCache,
	})

	var geoTable *geoip.Table
	if cfg.Output.GeoIPDB != "" {
		geoTable, err = geoip.LoadFile(cfg.Output.GeoIPDB)
		if err != nil {
			log.Fatalf("Failed to load GeoIP DB: %v", err)
		}
	}

	runner := pipeline.New(f, policy.NewMapper(runMode))
	result, err := runner.Run(context.Background(), groups, pipeline.Options{
		Concurrency: cfg.General.Concurrency,
		Dedupe:      cfg.Output.Dedupe,
		GeoIP:       geoTable,
	})
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	em, err := emitter.New(cfg.General.OutputDir)
	if err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	var writeErrs []error
	switch runMode {
	case policy.ModeFull:
		writeErrs = em.EmitFull(result.Groups, policy.ParseToken(cfg.Output.FinalPolicy))
	default:
		writeErrs = em.EmitList(result.Groups)
	}
	for _, werr := range writeErrs {
		log.Printf("Output error: %v", werr)
	}

	printSummary(&result.Summary, writeErrs, cfg.General.OutputDir)
}

func printSummary(s *pipeline.Summary, writeErrs []error, outDir string) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Printf("Groups processed: %s\n", green(s.Groups))
	fmt.Printf("Lines translated: %s\n", green(s.Lines))
	if s.Dropped > 0 {
		fmt.Printf("Duplicate rules dropped: %d\n", s.Dropped)
	}
	if len(s.FailedURLs) > 0 {
		fmt.Printf("Failed downloads: %s\n", red(len(s.FailedURLs)))
		for _, u := range s.FailedURLs {
			fmt.Printf("  %s %s\n", red("FAILED"), u)
		}
	}
	if len(writeErrs) > 0 {
		fmt.Printf("Failed writes: %s\n", red(len(writeErrs)))
	}
	fmt.Printf("Output directory: %s\n", outDir)

	if len(s.FailedURLs) == 0 && len(writeErrs) == 0 {
		fmt.Println(green("Done."))
	} else {
		// Partial failure still exits zero; only a bad source config is fatal.
		fmt.Println("Done with partial failures.")
	}
}
