package tarstream

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Item is one logical sample pulled from a shard: the raw bytes of its media
// members keyed by the shared basename.
type Item struct {
	Key       string
	ShardPath string
	Audio     []byte
	Video     []byte
}

// Source yields items until io.EOF.
type Source interface {
	Next() (Item, error)
}

var audioExtensions = map[string]struct{}{
	".wav":  {},
	".flac": {},
	".ogg":  {},
}

var videoExtensions = map[string]struct{}{
	".mp4": {},
}

// Reader streams items from a list of tar shards in order. Shards ending in
// .gz are transparently decompressed.
type Reader struct {
	paths []string

	shardIdx int
	file     *os.File
	gz       *gzip.Reader
	tr       *tar.Reader

	pending    Item
	hasPending bool
	done       bool
}

// NewReader prepares a reader over the given shard paths. Shards are opened
// lazily on the first Next call.
func NewReader(paths []string) *Reader {
	return &Reader{paths: paths}
}

// Next returns the next logical item, opening subsequent shards as earlier
// ones are exhausted. It returns io.EOF once every shard is drained.
func (r *Reader) Next() (Item, error) {
	if r.done {
		return Item{}, io.EOF
	}
	for {
		if r.tr == nil {
			if r.shardIdx >= len(r.paths) {
				r.done = true
				if r.hasPending {
					item := r.pending
					r.pending, r.hasPending = Item{}, false
					return item, nil
				}
				return Item{}, io.EOF
			}
			if err := r.openShard(r.paths[r.shardIdx]); err != nil {
				return Item{}, err
			}
			r.shardIdx++
		}

		header, err := r.tr.Next()
		if errors.Is(err, io.EOF) {
			// Shard finished; flush the trailing item before moving on.
			if err := r.closeShard(); err != nil {
				return Item{}, err
			}
			if r.hasPending {
				item := r.pending
				r.pending, r.hasPending = Item{}, false
				return item, nil
			}
			continue
		}
		if err != nil {
			shard := r.paths[r.shardIdx-1]
			_ = r.closeShard()
			return Item{}, fmt.Errorf("tarstream: read %q: %w", shard, err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		name := filepath.Base(header.Name)
		ext := strings.ToLower(filepath.Ext(name))
		key := strings.TrimSuffix(name, filepath.Ext(name))

		_, isAudio := audioExtensions[ext]
		_, isVideo := videoExtensions[ext]
		if !isAudio && !isVideo {
			continue
		}

		payload, err := io.ReadAll(r.tr)
		if err != nil {
			shard := r.paths[r.shardIdx-1]
			_ = r.closeShard()
			return Item{}, fmt.Errorf("tarstream: read member %q in %q: %w", header.Name, shard, err)
		}

		var emit Item
		var emitReady bool
		if r.hasPending && r.pending.Key != key {
			emit, emitReady = r.pending, true
			r.pending, r.hasPending = Item{}, false
		}
		if !r.hasPending {
			r.pending = Item{Key: key, ShardPath: r.paths[r.shardIdx-1]}
			r.hasPending = true
		}
		if isAudio {
			r.pending.Audio = payload
		} else {
			r.pending.Video = payload
		}
		if emitReady {
			return emit, nil
		}
	}
}

// Close releases the currently open shard, if any.
func (r *Reader) Close() error {
	r.done = true
	return r.closeShard()
}

func (r *Reader) openShard(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("tarstream: open shard %q: %w", path, err)
	}
	r.file = file

	var stream io.Reader = file
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			_ = file.Close()
			r.file = nil
			return fmt.Errorf("tarstream: open shard %q: %w", path, err)
		}
		r.gz = gz
		stream = gz
	}
	r.tr = tar.NewReader(stream)
	return nil
}

func (r *Reader) closeShard() error {
	r.tr = nil
	var errs []error
	if r.gz != nil {
		if err := r.gz.Close(); err != nil {
			errs = append(errs, err)
		}
		r.gz = nil
	}
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			errs = append(errs, err)
		}
		r.file = nil
	}
	return errors.Join(errs...)
}
