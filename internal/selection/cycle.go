package selection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"wallswitch/internal/dedup"
	"wallswitch/internal/imagefile"
	"wallswitch/internal/logging"
	"wallswitch/internal/monitor"
	"wallswitch/internal/partition"
	"wallswitch/internal/probe"
	"wallswitch/internal/scanner"
	"wallswitch/internal/validate"
)

// Renderer turns a partitioned chunk into the desktop wallpaper.
type Renderer interface {
	Render(ctx context.Context, partitions []partition.Partition) error
}

// Recorder persists emitted chunks.
type Recorder interface {
	Record(ctx context.Context, runID string, partitions []partition.Partition) error
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Options holds the immutable inputs of a rotation loop.
type Options struct {
	Directories []string
	Extensions  []string
	Plans       []monitor.Plan
	Constraints validate.Constraints
	Interval    time.Duration
	Sort        bool
	// Concurrency bounds hashing and probing fan-out; 0 means unbounded.
	Concurrency int
}

// Option customizes a Cycle.
type Option func(*Cycle)

// WithLogger sets the logger used for pass diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cycle) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers a callback invoked on every state transition.
func WithObserver(observer func(State)) Option {
	return func(c *Cycle) {
		c.observer = observer
	}
}

// WithSleeper replaces the interval wait.
func WithSleeper(sleeper Sleeper) Option {
	return func(c *Cycle) {
		if sleeper != nil {
			c.sleep = sleeper
		}
	}
}

// WithRecorder stores every emitted chunk.
func WithRecorder(recorder Recorder) Option {
	return func(c *Cycle) {
		c.recorder = recorder
	}
}

// WithRand sets the generator used to shuffle the pool.
func WithRand(r *rand.Rand) Option {
	return func(c *Cycle) {
		if r != nil {
			c.rand = r
		}
	}
}

// WithRunID labels recorded emissions.
func WithRunID(id string) Option {
	return func(c *Cycle) {
		c.runID = id
	}
}

// Cycle is the selection state machine.
type Cycle struct {
	opts     Options
	prober   probe.Prober
	renderer Renderer
	recorder Recorder
	logger   *slog.Logger
	observer func(State)
	sleep    Sleeper
	rand     *rand.Rand
	runID    string

	state atomic.Int32
}

// PassResult summarizes one pass over the pool.
type PassResult struct {
	Pool    int
	Chunks  int
	Emitted int
	Skipped int
}

// New builds a Cycle.
func New(opts Options, prober probe.Prober, renderer Renderer, options ...Option) *Cycle {
	c := &Cycle{
		opts:     opts,
		prober:   prober,
		renderer: renderer,
		logger:   logging.NewNop(),
		sleep:    sleepContext,
		rand:     NewRand(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// State returns the state the cycle is currently in.
func (c *Cycle) State() State {
	return State(c.state.Load())
}

func (c *Cycle) transition(next State) {
	c.state.Store(int32(next))
	if c.observer != nil {
		c.observer(next)
	}
}

func (c *Cycle) fail(err error) error {
	c.transition(Fatal)
	return err
}

// Run executes passes until a fatal error occurs or ctx is cancelled. A
// cancelled context yields ctx.Err().
func (c *Cycle) Run(ctx context.Context) error {
	for {
		if _, err := c.Pass(ctx); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Pass performs a single scan, order and emit sweep over the pool.
func (c *Cycle) Pass(ctx context.Context) (PassResult, error) {
	var result PassResult
	if err := ctx.Err(); err != nil {
		return result, err
	}

	c.transition(Scanning)
	scanned := scanner.ScanAll(c.opts.Directories, c.opts.Extensions)
	c.logger.Debug("scan complete",
		logging.Int("files", len(scanned)),
		logging.Int("directories", len(c.opts.Directories)),
	)

	c.transition(Deduplicating)
	pool, err := c.deduplicate(ctx, scanned)
	if err != nil {
		return result, err
	}
	result.Pool = len(pool)

	c.transition(CountChecking)
	if len(pool) == 0 {
		return result, c.fail(ErrNoImages)
	}
	if monitors := len(c.opts.Plans); len(pool) < monitors {
		return result, c.fail(&InsufficientImagesError{
			Found:    len(pool),
			Monitors: monitors,
			Paths:    imagefile.Paths(pool),
		})
	}

	c.transition(Ordering)
	if !c.opts.Sort {
		Shuffle(c.rand, pool)
	}
	imagefile.Number(pool)

	size := monitor.ImagesPerCycle(c.opts.Plans)
	for _, chunk := range Chunks(pool, size) {
		c.transition(Chunking)
		result.Chunks++
		if err := ctx.Err(); err != nil {
			return result, err
		}

		emitted, err := c.processChunk(ctx, imagefile.Clone(chunk))
		if err != nil {
			return result, err
		}
		if !emitted {
			result.Skipped++
			continue
		}
		result.Emitted++

		if err := c.sleep(ctx, c.opts.Interval); err != nil {
			return result, err
		}
	}

	if result.Emitted == 0 {
		c.logger.Error("no valid chunk in pass",
			logging.Int("pool", result.Pool),
			logging.Int("chunk_size", size),
			logging.Int("skipped", result.Skipped),
		)
		return result, c.fail(ErrInsufficientValid)
	}
	return result, nil
}

func (c *Cycle) deduplicate(ctx context.Context, scanned []imagefile.Record) ([]imagefile.Record, error) {
	hashed, failures, err := dedup.HashAll(ctx, scanned, c.opts.Concurrency)
	if err != nil {
		return nil, err
	}
	for _, failure := range failures {
		c.logger.Warn("skipping unreadable image",
			logging.String("path", failure.Path),
			logging.Error(failure.Err),
		)
	}

	pool := dedup.Deduplicate(hashed)
	if removed := pool.Removed(); removed > 0 {
		c.logger.Info("duplicate images ignored", logging.Int("count", removed))
		for _, group := range pool.Duplicates() {
			c.logger.Debug("identical content",
				logging.String("kept", group[0]),
				logging.String("duplicates", strings.Join(group[1:], ", ")),
			)
		}
	}
	return pool.Unique, nil
}

// processChunk reports whether the chunk was rendered. Validation and probe
// failures skip the chunk; render failures are returned.
func (c *Cycle) processChunk(ctx context.Context, chunk []imagefile.Record) (bool, error) {
	if errs := c.opts.Constraints.Sizes(chunk); len(errs) > 0 {
		c.skip("size", errs)
		return false, nil
	}

	c.transition(Enriching)
	if err := c.enrich(ctx, chunk); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		c.skip("probe", []error{err})
		return false, nil
	}

	c.transition(Validating)
	if errs := c.opts.Constraints.Figures(chunk); len(errs) > 0 {
		c.skip("figure", errs)
		return false, nil
	}

	c.transition(Emitting)
	partitions, err := partition.Split(chunk, c.opts.Plans)
	if err != nil {
		return false, c.fail(fmt.Errorf("partition chunk: %w", err))
	}
	if err := c.renderer.Render(ctx, partitions); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, c.fail(fmt.Errorf("render wallpaper: %w", err))
	}
	for _, record := range chunk {
		c.logger.Info("wallpaper image",
			logging.String("position", fmt.Sprintf("%d/%d", record.Index, record.Total)),
			logging.String("dimension", record.Dimension.String()),
			logging.Uint64("size_bytes", record.Size),
			logging.String("path", record.Path),
		)
	}
	if c.recorder != nil {
		if err := c.recorder.Record(ctx, c.runID, partitions); err != nil {
			c.logger.Warn("failed to record wallpaper history", logging.Error(err))
		}
	}
	return true, nil
}

func (c *Cycle) skip(check string, errs []error) {
	c.transition(Skipping)
	for _, err := range errs {
		c.logger.Warn("chunk skipped",
			logging.String("check", check),
			logging.Error(err),
		)
	}
}

// enrich probes every record's dimension concurrently. Each task writes only
// its own slot; all tasks complete before the first failure is reported.
func (c *Cycle) enrich(ctx context.Context, chunk []imagefile.Record) error {
	return errors.Join(probe.DimensionAll(ctx, c.prober, chunk, c.opts.Concurrency)...)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
