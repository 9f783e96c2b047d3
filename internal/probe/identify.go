package probe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"wallswitch/internal/deps"
	"wallswitch/internal/dimension"
	"wallswitch/internal/imagefile"
)

// Prober reports the dimension text of an image file.
type Prober interface {
	Probe(ctx context.Context, path string) (string, error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, path string) (string, error)

// Probe calls f.
func (f ProberFunc) Probe(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// Identify runs ImageMagick's identify command.
type Identify struct {
	// Binary is the executable to run.
	Binary string
	// Prefix holds arguments placed before the identify flags, such as the
	// "identify" subcommand when Binary is magick.
	Prefix []string
	// Runner executes the command; nil uses deps.ExecRunner.
	Runner deps.Runner
}

// NewIdentify prefers a dedicated identify binary and otherwise uses the
// "identify" subcommand of magick.
func NewIdentify(magick, identify string) Identify {
	if identify = strings.TrimSpace(identify); identify != "" {
		return Identify{Binary: identify}
	}
	magick = strings.TrimSpace(magick)
	if magick == "" {
		magick = "magick"
	}
	return Identify{Binary: magick, Prefix: []string{"identify"}}
}

// Args returns the full argument list for probing path. Only the first frame
// is inspected so animated formats report a single size.
func (i Identify) Args(path string) []string {
	args := append([]string(nil), i.Prefix...)
	return append(args, "-format", "%wx%h", path+"[0]")
}

// Probe executes identify and returns its trimmed standard output.
func (i Identify) Probe(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("identify: empty path")
	}
	binary := i.Binary
	if binary == "" {
		binary = "identify"
	}
	runner := i.Runner
	if runner == nil {
		runner = deps.ExecRunner{}
	}
	output, err := runner.Run(ctx, binary, i.Args(path)...)
	if err != nil {
		return "", fmt.Errorf("identify %s: %w", path, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// Dimension probes path and parses the result.
func Dimension(ctx context.Context, prober Prober, path string) (dimension.Dimension, error) {
	text, err := prober.Probe(ctx, path)
	if err != nil {
		return dimension.Dimension{}, err
	}
	dim, err := dimension.Parse(text)
	if err != nil {
		return dimension.Dimension{}, fmt.Errorf("parse dimension of %s: %w", path, err)
	}
	return dim, nil
}

// DimensionAll probes every record with at most limit probes in flight
// (limit <= 0 means unbounded) and stores each result in place. The returned
// slice has one entry per record, nil where the probe succeeded.
func DimensionAll(ctx context.Context, prober Prober, records []imagefile.Record, limit int) []error {
	errs := make([]error, len(records))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range records {
		g.Go(func() error {
			records[i].Dimension, errs[i] = Dimension(ctx, prober, records[i].Path)
			return nil
		})
	}
	_ = g.Wait()
	return errs
}
