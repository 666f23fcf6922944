package batch

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/txc-to-gtfs/converter"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/gtfs"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/store"
	"github.com/theoremus-urban-solutions/txc-to-gtfs/txc"
)

// Summary counts per-document outcomes of a run.
type Summary struct {
	Converted int
	Skipped   int
	Failed    int
}

// Runner drains discovered documents through a fixed pool of conversion
// workers into the staging store. Conversion is CPU bound and runs in
// parallel; appends are funneled through a single writer goroutine so
// the store sees one document at a time. A failing document is logged
// and counted, never fatal for its siblings.
type Runner struct {
	Converter       *converter.Converter
	Store           *store.Store
	Workers         int
	FileSizeLimitMB int
}

type outcome int

const (
	outcomeConverted outcome = iota
	outcomeSkipped
	outcomeFailed
)

// Run converts every source and stages the results. The returned error
// reports writer-side failures (the staging database); per-document
// conversion failures only show up in the summary.
func (r *Runner) Run(ctx context.Context, sources []Source) (Summary, error) {
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	runID := uuid.NewString()
	log.Printf("Run %s: converting %d documents with %d workers", runID, len(sources), workers)

	type job struct {
		idx int
		src Source
	}
	jobs := make(chan job)
	results := make(chan *gtfs.TableSet)

	var mu sync.Mutex
	var summary Summary

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				o := r.process(ctx, j.idx, len(sources), j.src, results)
				mu.Lock()
				switch o {
				case outcomeConverted:
					summary.Converted++
				case outcomeSkipped:
					summary.Skipped++
				case outcomeFailed:
					summary.Failed++
				}
				mu.Unlock()
			}
		}()
	}

	// The writer keeps draining after a failure so workers never block
	// on a dead channel; only the first error is reported.
	writerDone := make(chan error, 1)
	go func() {
		var firstErr error
		for set := range results {
			if firstErr != nil {
				continue
			}
			if err := r.Store.AppendTables(ctx, set); err != nil {
				firstErr = err
			}
		}
		writerDone <- firstErr
	}()

feed:
	for i, src := range sources {
		select {
		case jobs <- job{idx: i, src: src}:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	writerErr := <-writerDone

	log.Printf("Run %s finished: %d converted, %d skipped, %d failed",
		runID, summary.Converted, summary.Skipped, summary.Failed)

	if writerErr != nil {
		return summary, fmt.Errorf("failed to stage conversion results: %w", writerErr)
	}
	return summary, ctx.Err()
}

func (r *Runner) process(ctx context.Context, idx, total int, src Source, results chan<- *gtfs.TableSet) outcome {
	if r.FileSizeLimitMB > 0 && src.Size > int64(r.FileSizeLimitMB)*1_000_000 {
		log.Printf("File %s exceeds the file size limit of %d MB, skipping.", src.Name, r.FileSizeLimitMB)
		return outcomeSkipped
	}

	log.Printf("Converting %s (%d of %d)", src.Name, idx+1, total)

	doc, err := r.parse(src)
	if err != nil {
		log.Printf("Failed to convert %s: %v", src.Name, err)
		return outcomeFailed
	}

	tables, err := r.Converter.Convert(ctx, doc, src.Name)
	if err != nil {
		log.Printf("Failed to convert %s: %v", src.Name, err)
		return outcomeFailed
	}
	if len(tables.StopTimes) == 0 {
		log.Printf("File %s did not contain valid stop_sequence data, skipping.", src.Name)
		return outcomeSkipped
	}

	select {
	case results <- tables:
		return outcomeConverted
	case <-ctx.Done():
		return outcomeFailed
	}
}

func (r *Runner) parse(src Source) (*txc.Document, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", src.Name, err)
	}
	defer rc.Close()
	return txc.Parse(rc)
}
