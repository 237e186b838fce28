package stylecache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	stylecasterrors "github.com/stylecast/stylecast/pkg/errors"
)

const cacheFileExt = ".css"

// fileTier persists entries as plain UTF-8 files named by cache key. File
// modification time is the TTL reference; total size is bounded by capacity.
type fileTier struct {
	dir      string
	capacity int64
	now      func() time.Time
}

func newFileTier(dir string, capacity int64, now func() time.Time) (*fileTier, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "stylecast-cache")
	}
	if capacity <= 0 {
		capacity = defaultFileCapacityBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, stylecasterrors.NewCacheError("", err)
	}
	return &fileTier{dir: dir, capacity: capacity, now: now}, nil
}

func (f *fileTier) path(key string) string {
	return filepath.Join(f.dir, key+cacheFileExt)
}

// get reads a cached file, rejecting and deleting it when its modification
// time is older than ttl. The returned age is how long ago it was written.
func (f *fileTier) get(key string, ttl time.Duration) (content string, age time.Duration, ok bool, err error) {
	path := f.path(key)

	info, statErr := os.Stat(path)
	if statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			return "", 0, false, nil
		}
		return "", 0, false, stylecasterrors.NewCacheError(key, statErr)
	}

	age = f.now().Sub(info.ModTime())
	if age > ttl {
		_ = os.Remove(path)
		return "", 0, false, nil
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return "", 0, false, stylecasterrors.NewCacheError(key, readErr)
	}
	return string(data), age, true, nil
}

// set writes the entry and then enforces the byte cap.
func (f *fileTier) set(key, content string) error {
	if err := os.WriteFile(f.path(key), []byte(content), 0o644); err != nil {
		return stylecasterrors.NewCacheError(key, err)
	}
	return f.enforceCapacity()
}

func (f *fileTier) remove(key string) {
	_ = os.Remove(f.path(key))
}

func (f *fileTier) purge() error {
	files, err := f.list()
	if err != nil {
		return err
	}
	for _, file := range files {
		_ = os.Remove(file.path)
	}
	return nil
}

type cacheFile struct {
	path    string
	size    int64
	modTime time.Time
}

func (f *fileTier) list() ([]cacheFile, error) {
	dirEntries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, stylecasterrors.NewCacheError("", err)
	}

	files := make([]cacheFile, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), cacheFileExt) {
			continue
		}
		info, infoErr := de.Info()
		if infoErr != nil {
			continue
		}
		files = append(files, cacheFile{
			path:    filepath.Join(f.dir, de.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}
	return files, nil
}

// enforceCapacity removes oldest-by-modification-time files until total
// usage is back under 80% of the cap, so every overflow doesn't immediately
// trigger another eviction.
func (f *fileTier) enforceCapacity() error {
	files, err := f.list()
	if err != nil {
		return err
	}

	var total int64
	for _, file := range files {
		total += file.size
	}
	if total <= f.capacity {
		return nil
	}

	sort.Slice(files, func(i, j int) bool { return files[i].modTime.Before(files[j].modTime) })

	target := f.capacity * 8 / 10
	for _, file := range files {
		if total <= target {
			break
		}
		if removeErr := os.Remove(file.path); removeErr == nil {
			total -= file.size
		}
	}
	return nil
}

// sweepExpired removes every file older than ttl.
func (f *fileTier) sweepExpired(ttl time.Duration) (int, error) {
	files, err := f.list()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, file := range files {
		if f.now().Sub(file.modTime) > ttl {
			if removeErr := os.Remove(file.path); removeErr == nil {
				removed++
			}
		}
	}
	return removed, nil
}

func (f *fileTier) count() int {
	files, err := f.list()
	if err != nil {
		return 0
	}
	return len(files)
}
