// Package converter is the main entry point for TransXChange to GTFS
// conversion.
//
// This package provides the core conversion logic that integrates the parsed
// document model, the NaPTAN stop registry, and the national bank-holiday
// dataset to produce the GTFS entity tables for one document.
//
// # Overview
//
// The converter package coordinates three main components:
//   - Parsed TransXChange documents via txc.Document
//   - The national stop registry via naptan.Registry
//   - The bank-holiday dataset via holidays.Dataset
//
// # Usage
//
// Basic setup:
//
//	import (
//	    "github.com/theoremus-urban-solutions/txc-to-gtfs/config"
//	    "github.com/theoremus-urban-solutions/txc-to-gtfs/converter"
//	    "github.com/theoremus-urban-solutions/txc-to-gtfs/fetchcache"
//	    "github.com/theoremus-urban-solutions/txc-to-gtfs/holidays"
//	    "github.com/theoremus-urban-solutions/txc-to-gtfs/naptan"
//	    "github.com/theoremus-urban-solutions/txc-to-gtfs/txc"
//	)
//
//	// Shared collaborators, loaded once per run
//	cache := fetchcache.New(cfg.Registry.CacheDir)
//	registry := naptan.NewRegistry(cache, cfg.Registry.URL)
//	dataset := holidays.NewDataset(cache, cfg.Holidays.URL)
//
//	// Create converter
//	conv := converter.NewConverter(registry, dataset, cfg)
//
//	// Per-document conversion
//	doc, _ := txc.Parse(file)
//	tables, err := conv.Convert(ctx, doc, "tube_piccadilly.xml")
//
// The returned gtfs.TableSet holds the document's agency, stops, routes,
// trips, stop_times, calendar and calendar_dates rows, ready to append to the
// staging store. Cross-document deduplication happens at feed assembly, so
// converting overlapping documents is safe.
//
// # Conversion stages
//
// The converter package is organized into specialized files:
//   - converter.go: Converter struct and the per-document Convert pipeline
//   - journeys.go: walks every service's vehicle journeys over their journey
//     pattern sections, accumulating timing-link run times into stop visit
//     times, and synthesizes service ids from weekday patterns
//   - stops.go: resolves declared stops against the registry, with a grid
//     coordinate fallback for documents that define stops inline
//   - projectors.go: projects the intermediate rows into the GTFS tables,
//     applying the dedup and degenerate-trip rules
//   - warnings.go: aggregates recoverable defects into per-type summaries
//
// # Thread Safety
//
// Converter instances are safe for concurrent use. All per-document state
// lives inside the Convert call; the shared registry and holiday dataset
// guard themselves and are loaded once on first use.
//
// # Error handling
//
// Defects that invalidate a whole document (schema mismatch, a duplicate
// registry record, an unrecognized direction or weekday token, a malformed
// run time) surface as errors from Convert. Recoverable defects (a stop
// missing from the registry, an unknown holiday token, a trip with fewer
// than two stops) are counted by the WarningAggregator, which logs one
// consolidated line per defect type when the conversion finishes.
package converter
