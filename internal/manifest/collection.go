package manifest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Options controls manifest loading and filtering.
type Options struct {
	// MinDuration drops entries shorter than this many seconds. Zero
	// disables the lower bound.
	MinDuration float64
	// MaxDuration drops entries longer than this many seconds. Zero
	// disables the upper bound.
	MaxDuration float64
	// MaxUtterances caps the number of entries kept across all manifests.
	// Zero keeps everything.
	MaxUtterances int
	// IndexByFileID additionally builds the file-id to entry-index mapping
	// required by tar streaming.
	IndexByFileID bool
}

func (o Options) filtersDuration() bool {
	return o.MinDuration > 0 || o.MaxDuration > 0
}

// Collection is an immutable, position-indexed set of manifest entries.
type Collection struct {
	entries []Entry
	mapping map[string][]int

	// FilteredCount is the number of entries dropped by duration bounds.
	FilteredCount int
	// FilteredDuration is the total duration in seconds of dropped entries.
	FilteredDuration float64
	// TotalDuration is the summed duration of kept entries, counting only
	// records that declared one.
	TotalDuration float64
}

// Load reads one or more NDJSON manifest files and applies filtering. Paths
// may also be given as a single comma-separated string via SplitPaths.
func Load(paths []string, opts Options) (*Collection, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("manifest: no manifest paths")
	}

	c := &Collection{}
	if opts.IndexByFileID {
		c.mapping = make(map[string][]int)
	}

	for _, path := range paths {
		if err := c.loadFile(path, opts); err != nil {
			return nil, err
		}
		if opts.MaxUtterances > 0 && len(c.entries) >= opts.MaxUtterances {
			break
		}
	}
	return c, nil
}

// SplitPaths splits a comma-separated manifest path list.
func SplitPaths(joined string) []string {
	parts := strings.Split(joined, ",")
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paths = append(paths, trimmed)
		}
	}
	return paths
}

func (c *Collection) loadFile(path string, opts Options) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("manifest: open %q: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return fmt.Errorf("manifest: %s:%d: %w", path, lineNo, err)
		}
		entry, err := rec.toEntry()
		if err != nil {
			return fmt.Errorf("manifest: %s:%d: %w", path, lineNo, err)
		}

		if opts.filtersDuration() {
			if entry.Duration == nil {
				return fmt.Errorf("manifest: %s:%d: duration filtering requested but record has no duration", path, lineNo)
			}
			d := *entry.Duration
			if (opts.MinDuration > 0 && d < opts.MinDuration) || (opts.MaxDuration > 0 && d > opts.MaxDuration) {
				c.FilteredCount++
				c.FilteredDuration += d
				continue
			}
		}

		if opts.MaxUtterances > 0 && len(c.entries) >= opts.MaxUtterances {
			return nil
		}

		index := len(c.entries)
		c.entries = append(c.entries, entry)
		if entry.Duration != nil {
			c.TotalDuration += *entry.Duration
		}
		if c.mapping != nil {
			id := entry.FileID()
			c.mapping[id] = append(c.mapping[id], index)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("manifest: read %q: %w", path, err)
	}
	return nil
}

// Len returns the number of entries kept after filtering.
func (c *Collection) Len() int {
	return len(c.entries)
}

// Entry returns the entry at position index.
func (c *Collection) Entry(index int) (Entry, error) {
	if index < 0 || index >= len(c.entries) {
		return Entry{}, fmt.Errorf("manifest: index %d out of range [0,%d)", index, len(c.entries))
	}
	return c.entries[index], nil
}

// Offsets returns the entry indexes registered for a file id, in manifest
// order, or false when the id is unknown. Requires IndexByFileID at load.
func (c *Collection) Offsets(fileID string) ([]int, bool) {
	if c.mapping == nil {
		return nil, false
	}
	indexes, ok := c.mapping[fileID]
	return indexes, ok
}

// HasFileID reports whether the file id survived filtering.
func (c *Collection) HasFileID(fileID string) bool {
	_, ok := c.Offsets(fileID)
	return ok
}
