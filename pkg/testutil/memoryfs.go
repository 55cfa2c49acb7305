package testutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/shellstrap/pkg/types"
)

// MemoryFS is an in-memory types.FS for tests. Paths are normalized with
// forward slashes; parent directories must exist before files are written,
// matching OS behavior closely enough for the code under test.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
	// mtimes lets tests assert that unchanged files were not rewritten
	mtimes map[string]time.Time
	clock  time.Time
}

// NewMemoryFS creates an empty in-memory filesystem with a root directory.
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files:  make(map[string][]byte),
		dirs:   map[string]bool{"/": true},
		mtimes: make(map[string]time.Time),
		clock:  time.Unix(1700000000, 0),
	}
}

func normalize(name string) string {
	return filepath.ToSlash(filepath.Clean(name))
}

// tick advances the fake clock so successive writes get distinct mtimes.
func (m *MemoryFS) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = normalize(name)
	if data, ok := m.files[name]; ok {
		return &fileInfo{name: filepath.Base(name), size: int64(len(data)), mtime: m.mtimes[name]}, nil
	}
	if m.dirs[name] {
		return &fileInfo{name: filepath.Base(name), dir: true, mtime: m.mtimes[name]}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = normalize(name)
	data, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = normalize(name)
	dir := normalize(filepath.Dir(name))
	if !m.dirs[dir] {
		return &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.files[name] = stored
	m.mtimes[name] = m.tick()
	return nil
}

func (m *MemoryFS) MkdirAll(path string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = normalize(path)
	parts := strings.Split(path, "/")
	current := ""
	for _, part := range parts {
		if part == "" {
			current = "/"
			continue
		}
		if current == "/" || current == "" {
			current += part
		} else {
			current += "/" + part
		}
		m.dirs[current] = true
	}
	return nil
}

func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = normalize(name)
	if !m.dirs[name] {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	seen := make(map[string]bool)
	var entries []fs.DirEntry
	prefix := name + "/"
	if name == "/" {
		prefix = "/"
	}

	for path := range m.files {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := strings.TrimPrefix(path, prefix)
		first := strings.Split(rest, "/")[0]
		if first != "" && !seen[first] {
			seen[first] = true
			isDir := strings.Contains(rest, "/")
			entries = append(entries, &dirEntry{name: first, dir: isDir})
		}
	}
	for path := range m.dirs {
		if !strings.HasPrefix(path, prefix) || path == name {
			continue
		}
		rest := strings.TrimPrefix(path, prefix)
		first := strings.Split(rest, "/")[0]
		if first != "" && !seen[first] {
			seen[first] = true
			entries = append(entries, &dirEntry{name: first, dir: true})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = normalize(name)
	if _, ok := m.files[name]; ok {
		delete(m.files, name)
		delete(m.mtimes, name)
		return nil
	}
	if m.dirs[name] {
		delete(m.dirs, name)
		return nil
	}
	return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
}

func (m *MemoryFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldpath, newpath = normalize(oldpath), normalize(newpath)
	data, ok := m.files[oldpath]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	m.files[newpath] = data
	m.mtimes[newpath] = m.tick()
	delete(m.files, oldpath)
	delete(m.mtimes, oldpath)
	return nil
}

// ModTime returns the recorded mtime for a path, for no-spurious-write
// assertions.
func (m *MemoryFS) ModTime(name string) time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mtimes[normalize(name)]
}

var _ types.FS = (*MemoryFS)(nil)

type fileInfo struct {
	name  string
	size  int64
	dir   bool
	mtime time.Time
}

func (f *fileInfo) Name() string       { return f.name }
func (f *fileInfo) Size() int64        { return f.size }
func (f *fileInfo) Mode() fs.FileMode  { return 0644 }
func (f *fileInfo) ModTime() time.Time { return f.mtime }
func (f *fileInfo) IsDir() bool        { return f.dir }
func (f *fileInfo) Sys() interface{}   { return nil }

type dirEntry struct {
	name string
	dir  bool
}

func (d *dirEntry) Name() string               { return d.name }
func (d *dirEntry) IsDir() bool                { return d.dir }
func (d *dirEntry) Type() fs.FileMode          { return 0 }
func (d *dirEntry) Info() (fs.FileInfo, error) { return &fileInfo{name: d.name, dir: d.dir}, nil }
