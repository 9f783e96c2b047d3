package dedup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"wallswitch/internal/imagefile"
)

// BufferSize is the read buffer used while streaming file contents.
const BufferSize = 64 * 1024

// FileError records a file that could not be hashed.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("hash %s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Hash streams r into an xxHash digest and returns it as decimal text.
func Hash(r io.Reader) (string, error) {
	digest := xxhash.New()
	buf := make([]byte, BufferSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			_, _ = digest.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strconv.FormatUint(digest.Sum64(), 10), nil
}

// HashFile opens path and hashes its contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	sum, err := Hash(f)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	return sum, nil
}

// HashAll hashes every record concurrently with at most limit files in flight
// (limit <= 0 means unbounded). Records that hash successfully are returned in
// input order with Hash set; failures are reported separately and excluded.
// Cancellation stops new files from being opened; the returned error is the
// context error in that case.
func HashAll(ctx context.Context, records []imagefile.Record, limit int) ([]imagefile.Record, []FileError, error) {
	sums := make([]string, len(records))
	errs := make([]error, len(records))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			sums[i], errs[i] = HashFile(records[i].Path)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	hashed := make([]imagefile.Record, 0, len(records))
	var failures []FileError
	for i, record := range records {
		if errs[i] != nil {
			failures = append(failures, FileError{Path: record.Path, Err: errs[i]})
			continue
		}
		record.Hash = sums[i]
		hashed = append(hashed, record)
	}
	return hashed, failures, nil
}

// Pool is the deduplicated set of records.
type Pool struct {
	// Unique holds the first-seen record for every distinct hash, in input order.
	Unique []imagefile.Record
	// Groups maps each hash to every path that produced it, in input order.
	Groups map[string][]string
}

// Deduplicate keeps the first record seen for each hash.
func Deduplicate(records []imagefile.Record) Pool {
	pool := Pool{Groups: make(map[string][]string, len(records))}
	for _, record := range records {
		paths, seen := pool.Groups[record.Hash]
		pool.Groups[record.Hash] = append(paths, record.Path)
		if !seen {
			pool.Unique = append(pool.Unique, record)
		}
	}
	return pool
}

// Duplicates returns the path groups that share a hash, ordered by the
// position of their first member.
func (p Pool) Duplicates() [][]string {
	var groups [][]string
	for _, record := range p.Unique {
		if paths := p.Groups[record.Hash]; len(paths) > 1 {
			groups = append(groups, paths)
		}
	}
	return groups
}

// Removed returns how many records were dropped as duplicates.
func (p Pool) Removed() int {
	total := 0
	for _, paths := range p.Groups {
		total += len(paths)
	}
	return total - len(p.Unique)
}
