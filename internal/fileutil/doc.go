// Package fileutil provides small file helpers for replacing output files in
// place.
package fileutil
