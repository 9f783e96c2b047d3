package imagefile

import (
	"path/filepath"
	"strconv"

	"wallswitch/internal/dimension"
)

// Record describes one candidate image file.
//
// The scanner fills Path and Size, deduplication fills Hash, and enrichment
// fills Dimension for chunk members that passed the size check. Index and
// Total are 1-based positions assigned after the pool is ordered.
type Record struct {
	Index     int
	Total     int
	Dimension dimension.Dimension
	Size      uint64
	Hash      string
	Path      string
}

// Name returns the base name of the file.
func (r Record) Name() string {
	return filepath.Base(r.Path)
}

// Number assigns 1-based Index values and the pool Total in slice order.
func Number(records []Record) {
	total := len(records)
	for i := range records {
		records[i].Index = i + 1
		records[i].Total = total
	}
}

// Clone returns a copy of records that shares no backing array with the input.
func Clone(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// Paths returns the path of every record in order.
func Paths(records []Record) []string {
	paths := make([]string, len(records))
	for i, record := range records {
		paths[i] = record.Path
	}
	return paths
}

// TableHeaders lists the columns produced by Table.
var TableHeaders = []string{"#", "Size", "Dimension", "Hash", "Path"}

// Table renders records as string rows for tabular display.
func Table(records []Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		position := strconv.Itoa(record.Index)
		if record.Total > 0 {
			position += "/" + strconv.Itoa(record.Total)
		}
		dims := ""
		if !record.Dimension.IsZero() {
			dims = record.Dimension.String()
		}
		rows = append(rows, []string{
			position,
			strconv.FormatUint(record.Size, 10),
			dims,
			record.Hash,
			record.Path,
		})
	}
	return rows
}
