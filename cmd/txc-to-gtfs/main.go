package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/theoremus-urban-solutions/txc-to-gtfs/batch"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/config"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/converter"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/feed"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/fetchcache"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/holidays"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/internal"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/naptan"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/store"
)

func main() {
	input := flag.String("input", "", "TransXChange .xml file, .zip archive or directory to convert")
	output := flag.String("output", "", "GTFS zip path (overrides config)")
	appendDB := flag.Bool("append", false, "append to the existing staging database instead of starting fresh")
	workers := flag.Int("workers", 0, "number of conversion workers (overrides config)")
	maxFileSize := flag.Int("maxFileSize", 0, "per-document size limit in MB (overrides config)")
	flag.Parse()

	_ = godotenv.Load()
	internal.InitLogging()
	if err := config.LoadAppConfig(); err != nil {
		panic(err)
	}
	cfg := config.Config

	if *input == "" && flag.NArg() > 0 {
		*input = flag.Arg(0)
	}
	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *output != "" {
		cfg.Output.Path = *output
		// The staging database follows the feed unless configured away.
		cfg.Output.DatabasePath = filepath.Join(filepath.Dir(*output), "gtfs.db")
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if *maxFileSize > 0 {
		cfg.Batch.FileSizeLimitMB = *maxFileSize
	}

	sources, err := batch.Discover(*input)
	if err != nil {
		panic(err)
	}
	if len(sources) == 0 {
		log.Printf("No TransXChange documents found under %s", *input)
		return
	}

	if !*appendDB {
		if err := os.Remove(cfg.Output.DatabasePath); err != nil && !os.IsNotExist(err) {
			panic(err)
		}
	}

	cache := fetchcache.New(cfg.Registry.CacheDir)
	cache.MaxAge = time.Duration(cfg.Registry.MaxAgeDays) * 24 * time.Hour
	cache.Attempts = cfg.Registry.Attempts

	registry := naptan.NewRegistry(cache, cfg.Registry.URL)
	dataset := holidays.NewDataset(cache, cfg.Holidays.URL)
	conv := converter.NewConverter(registry, dataset, cfg)

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Output.DatabasePath)
	if err != nil {
		panic(err)
	}
	defer st.Close()

	runner := batch.Runner{
		Converter:       conv,
		Store:           st,
		Workers:         cfg.Batch.Workers,
		FileSizeLimitMB: cfg.Batch.FileSizeLimitMB,
	}
	summary, err := runner.Run(ctx, sources)
	if err != nil {
		panic(err)
	}
	if summary.Converted == 0 && !*appendDB {
		log.Printf("No documents converted, not writing %s", cfg.Output.Path)
		return
	}

	if err := feed.Assemble(ctx, st, cfg.Output.Path); err != nil {
		panic(err)
	}
	log.Printf("GTFS feed written to %s", cfg.Output.Path)
}
