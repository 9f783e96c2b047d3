package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	"wallswitch/internal/imagefile"
)

// Matcher reports whether a file name carries one of the allowed extensions.
// Comparison uses Unicode case folding, so "JPG" and "jpg" match alike. A
// Matcher is not safe for concurrent use.
type Matcher struct {
	folder cases.Caser
	allow  map[string]struct{}
}

// NewMatcher builds a Matcher. Extensions may be given with or without the
// leading dot.
func NewMatcher(extensions []string) *Matcher {
	m := &Matcher{folder: cases.Fold(), allow: make(map[string]struct{}, len(extensions))}
	for _, ext := range extensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			continue
		}
		m.allow[m.folder.String(ext)] = struct{}{}
	}
	return m
}

// Match reports whether name has an allowed extension.
func (m *Matcher) Match(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return false
	}
	_, ok := m.allow[m.folder.String(ext)]
	return ok
}

// Scan walks root recursively and returns a record for every regular file
// whose extension is allowed. A missing or unreadable root yields no records.
func Scan(root string, extensions []string) []imagefile.Record {
	return scan(root, NewMatcher(extensions))
}

// ScanAll scans every root in order and concatenates the results.
func ScanAll(roots []string, extensions []string) []imagefile.Record {
	matcher := NewMatcher(extensions)
	var records []imagefile.Record
	for _, root := range roots {
		records = append(records, scan(root, matcher)...)
	}
	return records
}

func scan(root string, matcher *Matcher) []imagefile.Record {
	var records []imagefile.Record
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !matcher.Match(d.Name()) {
			return nil
		}
		info, err := regularFile(path, d)
		if err != nil || info == nil {
			return nil
		}
		records = append(records, imagefile.Record{
			Path: path,
			Size: uint64(info.Size()),
		})
		return nil
	})
	return records
}

// regularFile resolves symlinks and returns file info only for regular files.
func regularFile(path string, d fs.DirEntry) (fs.FileInfo, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.Mode().IsRegular() {
			return nil, nil
		}
		return info, nil
	}
	if !d.Type().IsRegular() {
		return nil, nil
	}
	return d.Info()
}
