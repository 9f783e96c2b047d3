package partition

import (
	"errors"
	"fmt"

	"wallswitch/internal/dimension"
	"wallswitch/internal/imagefile"
	"wallswitch/internal/monitor"
)

// ErrShortChunk reports that fewer records were supplied than the plans need.
var ErrShortChunk = errors.New("chunk smaller than images per cycle")

// Partition is the slice of a chunk assigned to one monitor.
type Partition struct {
	Monitor int
	Plan    monitor.Plan
	Records []imagefile.Record
	Tiles   []dimension.Dimension
}

// Split assigns Pictures consecutive records to each plan in plan order.
// Records beyond ImagesPerCycle(plans) are ignored.
func Split(records []imagefile.Record, plans []monitor.Plan) ([]Partition, error) {
	need := monitor.ImagesPerCycle(plans)
	if len(records) < need {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrShortChunk, len(records), need)
	}

	partitions := make([]Partition, 0, len(plans))
	offset := 0
	for i, plan := range plans {
		k := int(plan.Pictures)
		partitions = append(partitions, Partition{
			Monitor: i,
			Plan:    plan,
			Records: records[offset : offset+k : offset+k],
			Tiles:   plan.TileSizes(),
		})
		offset += k
	}
	return partitions, nil
}

// Flatten concatenates the records of every partition in order.
func Flatten(partitions []Partition) []imagefile.Record {
	var records []imagefile.Record
	for _, p := range partitions {
		records = append(records, p.Records...)
	}
	return records
}
