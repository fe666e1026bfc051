// Package pipeline drives a generation run: it fans corpus examples out to
// a retrieval strategy, encodes the results, and persists batched output
// plus the run dictionary and manifest.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gridgen/internal/codec"
	"gridgen/internal/config"
	"gridgen/internal/dataset"
	"gridgen/internal/grid"
	"gridgen/internal/oracle"
	"gridgen/internal/strategy"
	"gridgen/internal/vocab"
	"gridgen/internal/world"
)

// DefaultWorkers is the worker-pool width for parallel-capable modes.
const DefaultWorkers = 8

// Runner holds the per-run collaborators and knobs. Zero-value knobs fall
// back to the package defaults.
type Runner struct {
	Log      *zap.Logger
	Mode     config.Mode
	ModeName string
	Codec    *codec.Codec
	Vocab    *vocab.Vocabulary
	Demo     world.Demonstrator

	Workers   int
	ChunkSize int
	Seed      int64
}

// SplitReport summarizes one split's outcome in the manifest.
type SplitReport struct {
	Split     string `json:"split"`
	Dir       string `json:"dir"`
	Generated int    `json:"generated"`
	Skipped   int    `json:"skipped"`
}

// Manifest records a run's identity and per-split counts.
type Manifest struct {
	RunID       string        `json:"run_id"`
	Mode        string        `json:"mode"`
	GeneratedAt time.Time     `json:"generated_at"`
	Splits      []SplitReport `json:"splits"`
}

// Run generates every requested split into outDir and writes the
// dictionary and manifest files. onlySplits filters by split directory
// name; empty means all.
func (r *Runner) Run(ctx context.Context, d *dataset.Dataset, outDir string, onlySplits []string) (*Manifest, error) {
	if r.Log == nil {
		r.Log = zap.NewNop()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	dict := dataset.BuildDictionary(d, r.Vocab.ColorAdjectives(), r.Vocab.Nouns())
	enc := NewEncoder(r.Codec, dict)

	var payload *strategy.Payload
	if r.Mode.Strategy != "" {
		payload = strategy.BuildPayload(d.Examples[vocab.SplitTrain], dict.Colors, dict.Nouns)
	}

	manifest := &Manifest{
		RunID:       uuid.NewString(),
		Mode:        r.ModeName,
		GeneratedAt: time.Now().UTC(),
	}

	for _, split := range d.Splits() {
		dir, ok := vocab.SplitDirNames[split]
		if !ok {
			dir = split
		}
		if len(onlySplits) > 0 && !contains(onlySplits, dir) {
			continue
		}

		report, err := r.runSplit(ctx, split, dir, d.Examples[split], enc, payload, outDir, workers)
		if err != nil {
			return nil, fmt.Errorf("generating split %s: %w", split, err)
		}
		manifest.Splits = append(manifest.Splits, report)
		r.Log.Info("Split complete",
			zap.String("split", split),
			zap.Int("generated", report.Generated),
			zap.Int("skipped", report.Skipped))
	}

	if err := writeJSON(filepath.Join(outDir, "dictionary.json"), dict); err != nil {
		return nil, err
	}
	if err := writeJSON(filepath.Join(outDir, "manifest.json"), manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

type taskResult struct {
	example EncodedExample
	skipped bool
}

func (r *Runner) runSplit(ctx context.Context, split, dir string, examples []grid.Example, enc *Encoder, payload *strategy.Payload, outDir string, workers int) (SplitReport, error) {
	writer, err := NewBatchWriter(filepath.Join(outDir, dir), r.ChunkSize)
	if err != nil {
		return SplitReport{}, err
	}

	report := SplitReport{Split: split, Dir: dir}

	if r.Mode.Strategy == "" {
		for _, ex := range examples {
			if err := writer.Append(enc.EncodeBaseline(ex)); err != nil {
				return SplitReport{}, err
			}
		}
		report.Generated = writer.Written()
		return report, writer.Close()
	}

	strat, ok := strategy.Table[r.Mode.Strategy]
	if !ok {
		return SplitReport{}, fmt.Errorf("unknown strategy %q", r.Mode.Strategy)
	}
	opt := r.Mode.OracleOptions(vocab.WaiverSets[split])

	if !r.Mode.CanParallel {
		for i, ex := range examples {
			res, skip, err := r.generateOne(strat, i, ex, payload, opt)
			if err != nil {
				return SplitReport{}, err
			}
			if skip {
				report.Skipped++
				continue
			}
			if err := writer.Append(enc.Encode(ex, res)); err != nil {
				return SplitReport{}, err
			}
		}
		report.Generated = writer.Written()
		return report, writer.Close()
	}

	// Parallel path: one task per example, bounded pool, unordered
	// completion. A single drain goroutine owns the writer.
	results := make(chan taskResult, workers)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	drained := make(chan error, 1)
	go func() {
		var derr error
		for res := range results {
			if derr != nil {
				continue
			}
			if res.skipped {
				report.Skipped++
				continue
			}
			derr = writer.Append(res.example)
		}
		drained <- derr
	}()

	for i, ex := range examples {
		i, ex := i, ex
		eg.Go(func() error {
			res, skip, err := r.generateOne(strat, i, ex, payload, opt)
			if err != nil {
				return err
			}
			out := taskResult{skipped: skip}
			if !skip {
				out.example = enc.Encode(ex, res)
			}
			select {
			case results <- out:
				return nil
			case <-egCtx.Done():
				return egCtx.Err()
			}
		})
	}

	err = eg.Wait()
	close(results)
	if derr := <-drained; derr != nil && err == nil {
		err = derr
	}
	if err != nil {
		return SplitReport{}, err
	}
	report.Generated = writer.Written()
	return report, writer.Close()
}

// generateOne runs one strategy invocation with its own seeded RNG so
// results do not depend on worker interleaving.
func (r *Runner) generateOne(strat strategy.Func, i int, ex grid.Example, payload *strategy.Payload, opt oracle.Options) (strategy.Result, bool, error) {
	req := strategy.Request{
		Index:          i,
		Command:        ex.Command,
		TargetCommands: ex.TargetCommands,
		Situation:      ex.Situation,
		RNG:            rand.New(rand.NewSource(r.Seed + int64(i))),
	}
	res, err := strat(req, r.Demo, r.Vocab, payload, opt)
	if err != nil {
		var skip *strategy.SkipError
		if errors.As(err, &skip) {
			r.Log.Debug("Skipping example",
				zap.Int("index", i),
				zap.String("reason", skip.Reason))
			return strategy.Result{}, true, nil
		}
		return strategy.Result{}, false, err
	}
	return res, false, nil
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
