package exporter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// fileNamePattern matches Prediccion_<millis>.xlsx.
var fileNamePattern = regexp.MustCompile(`^Prediccion_(\d+)\.xlsx$`)

// FileName returns the export name for an epoch-millisecond timestamp.
func FileName(millis int64) string {
	return "Prediccion_" + strconv.FormatInt(millis, 10) + ".xlsx"
}

// ParseFileName extracts the timestamp of an export name.
func ParseFileName(name string) (int64, bool) {
	m := fileNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	ms, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return ms, true
}

// Entry describes a stored export.
type Entry struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// Storage is a user-granted location for exports.
type Storage interface {
	// Create writes a new file and fails if name already exists.
	Create(name string, data []byte) error
	// List returns the stored exports, newest first.
	List() ([]Entry, error)
	Read(name string) ([]byte, error)
}

// DirStorage confines every operation to one directory.
type DirStorage struct {
	root *os.Root
}

// OpenDir grants access to dir. A missing or unreadable directory yields
// ErrPermissionDenied.
func OpenDir(dir string) (*DirStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: no export directory configured", ErrPermissionDenied)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return &DirStorage{root: root}, nil
}

func (s *DirStorage) Close() error { return s.root.Close() }

func (s *DirStorage) Name() string { return s.root.Name() }

func (s *DirStorage) Create(name string, data []byte) error {
	f, err := s.root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return classify(err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = s.root.Remove(name)
		return classify(err)
	}
	if err := f.Close(); err != nil {
		_ = s.root.Remove(name)
		return classify(err)
	}
	return nil
}

func (s *DirStorage) List() ([]Entry, error) {
	dirents, err := fs.ReadDir(s.root.FS(), ".")
	if err != nil {
		return nil, classify(err)
	}
	out := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		ms, ok := ParseFileName(d.Name())
		if !ok {
			continue
		}
		e := Entry{Name: d.Name(), CreatedAt: time.UnixMilli(ms).UTC()}
		if info, err := d.Info(); err == nil {
			e.Size = info.Size()
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *DirStorage) Read(name string) ([]byte, error) {
	if _, ok := ParseFileName(name); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	data, err := fs.ReadFile(s.root.FS(), name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, classify(err)
	}
	return data, nil
}

func classify(err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return fmt.Errorf("%w: %w", ErrWriteFailure, err)
}
