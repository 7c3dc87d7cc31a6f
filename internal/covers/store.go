// Package covers persists uploaded cover images in a content directory.
package covers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/egarlo/libreria/internal/utils"
)

const tmpPrefix = "upload_tmp_"

// Store writes cover files under a content directory keyed by
// "{isbn}_{filename}" and maps them to public URL paths. Re-uploading the
// same isbn/filename pair overwrites the previous file; the temp-file plus
// rename write keeps readers from ever observing a partial file.
type Store struct {
	dir       string
	urlPrefix string
}

// NewStore creates the content directory if needed.
func NewStore(dir, urlPrefix string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create covers dir: %w", err)
	}
	return &Store{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}, nil
}

// Save stores the payload and returns the public URL path of the file.
func (s *Store) Save(isbn, filename string, payload io.Reader) (string, error) {
	name := fmt.Sprintf("%s_%s", isbn, utils.SanitizeFilename(filename))
	target := filepath.Join(s.dir, name)

	tmpFile, err := os.CreateTemp(s.dir, tmpPrefix)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, payload); err != nil {
		return "", fmt.Errorf("write cover: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("close cover: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		return "", fmt.Errorf("store cover: %w", err)
	}

	return s.urlPrefix + "/" + name, nil
}

// Sweep removes files whose public path is not in referenced. Returns the
// number of files deleted. In-flight temp files are left alone.
func (s *Store) Sweep(referenced []string) (int, error) {
	keep := make(map[string]bool, len(referenced))
	for _, publicPath := range referenced {
		keep[filepath.Base(publicPath)] = true
	}

	files, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, file := range files {
		if file.IsDir() || strings.HasPrefix(file.Name(), tmpPrefix) {
			continue
		}
		if keep[file.Name()] {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, file.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Dir returns the content directory path.
func (s *Store) Dir() string {
	return s.dir
}
