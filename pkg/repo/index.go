package repo

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/strata-vc/strata/pkg/object"
)

// IndexEntry is a mutable staged record: a file's mode, content digest, and
// working-directory-relative path. The index is a flat list; no tree
// structure is represented here.
type IndexEntry struct {
	Mode   string
	Digest object.Hash
	Path   string
}

func (r *Repo) indexPath() string {
	return filepath.Join(r.StrataDir, "index")
}

// LoadIndex reads .strata/index, one "<mode> <digest> <path>" record per
// line. A missing index file returns an empty list, not an error.
func (r *Repo) LoadIndex() ([]IndexEntry, error) {
	f, err := os.Open(r.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load index: %w", err)
	}
	defer f.Close()

	var entries []IndexEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("load index: malformed record %q", line)
		}
		entries = append(entries, IndexEntry{Mode: parts[0], Digest: object.Hash(parts[1]), Path: parts[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	return entries, nil
}

// SaveIndex overwrites .strata/index with entries, one
// "<mode> <digest> <path>\n" record per line. The write is atomic: data
// goes to a temp file that is renamed into place.
func (r *Repo) SaveIndex(entries []IndexEntry) error {
	var buf strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&buf, "%s %s %s\n", e.Mode, e.Digest, e.Path)
	}

	tmp, err := os.CreateTemp(r.StrataDir, ".index-tmp-*")
	if err != nil {
		return fmt.Errorf("save index: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(buf.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("save index: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save index: close: %w", err)
	}
	if err := os.Rename(tmpName, r.indexPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save index: rename: %w", err)
	}
	return nil
}

// ClearIndex truncates the index to empty.
func (r *Repo) ClearIndex() error {
	return r.SaveIndex(nil)
}

// Add stages path: a file becomes a blob plus an index entry; a directory
// recurses into its immediate entries, skipping ".", "..", and the
// repository directory, and adds each in turn.
func (r *Repo) Add(path string) error {
	entries, err := r.LoadIndex()
	if err != nil {
		return fmt.Errorf("add %q: %w", path, err)
	}
	entries, err = r.addRec(entries, path)
	if err != nil {
		return fmt.Errorf("add %q: %w", path, err)
	}
	return r.SaveIndex(entries)
}

func (r *Repo) addRec(entries []IndexEntry, path string) ([]IndexEntry, error) {
	absPath := path
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(r.RootDir, path)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", object.ErrNotFound, path)
		}
		return nil, err
	}

	if info.IsDir() {
		if absPath == r.StrataDir {
			return entries, nil
		}
		dirEntries, err := os.ReadDir(absPath)
		if err != nil {
			return nil, err
		}
		for _, de := range dirEntries {
			name := de.Name()
			if name == "." || name == ".." {
				continue
			}
			childAbs := filepath.Join(absPath, name)
			if childAbs == r.StrataDir {
				continue
			}
			entries, err = r.addRec(entries, childAbs)
			if err != nil {
				return nil, err
			}
		}
		return entries, nil
	}

	relPath, err := r.repoRelPath(absPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	digest, err := r.Store.PutBlob(&object.Blob{Data: data})
	if err != nil {
		return nil, fmt.Errorf("write blob %q: %w", relPath, err)
	}

	filtered := entries[:0]
	for _, e := range entries {
		if e.Path != relPath {
			filtered = append(filtered, e)
		}
	}
	filtered = append(filtered, IndexEntry{Mode: modeFromFileInfo(info), Digest: digest, Path: relPath})
	return filtered, nil
}

// repoRelPath converts an absolute path into a slash-separated path
// relative to the repository root.
func (r *Repo) repoRelPath(absPath string) (string, error) {
	rel, err := filepath.Rel(r.RootDir, absPath)
	if err != nil {
		return "", fmt.Errorf("cannot make %q relative to %q: %w", absPath, r.RootDir, err)
	}
	return filepath.ToSlash(rel), nil
}
