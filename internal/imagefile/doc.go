// Package imagefile defines the record carried for every candidate image as
// it moves through scanning, deduplication, enrichment and validation.
package imagefile
