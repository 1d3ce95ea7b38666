package repo

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/strata-vc/strata/pkg/object"
)

// TreeFileEntry is a single file surfaced by flattening a tree: its full
// slash-separated path, content digest, and mode.
type TreeFileEntry struct {
	Path string
	Hash object.Hash
	Mode string
}

// BuildTreeFromFilesystem walks the working directory rooted at dir
// (repo-relative, "" for the root) and recursively builds nested tree
// objects directly from the filesystem ("write-tree" semantics). The
// repository directory itself is skipped. Directories become 040000
// entries; files become 100755 or 100644 depending on the owner-execute
// bit. Returns the root tree's digest.
func (r *Repo) BuildTreeFromFilesystem(dir string) (object.Hash, error) {
	absDir := r.RootDir
	if dir != "" {
		absDir = filepath.Join(r.RootDir, filepath.FromSlash(dir))
	}

	children, err := os.ReadDir(absDir)
	if err != nil {
		return "", fmt.Errorf("write-tree %q: %w", dir, err)
	}

	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, c.Name())
	}
	sort.Strings(names)

	var entries []object.TreeEntry
	for _, name := range names {
		childAbs := filepath.Join(absDir, name)
		if childAbs == r.StrataDir {
			continue
		}

		info, err := os.Lstat(childAbs)
		if err != nil {
			return "", fmt.Errorf("write-tree %q: %w", name, err)
		}

		childRel := name
		if dir != "" {
			childRel = dir + "/" + name
		}

		if info.IsDir() {
			subHash, err := r.BuildTreeFromFilesystem(childRel)
			if err != nil {
				return "", err
			}
			entries = append(entries, object.TreeEntry{
				Name:     name,
				IsDir:    true,
				Mode:     object.ModeDir,
				TreeHash: subHash,
			})
			continue
		}

		data, err := os.ReadFile(childAbs)
		if err != nil {
			return "", fmt.Errorf("write-tree %q: %w", childRel, err)
		}
		blobHash, err := r.Store.PutBlob(&object.Blob{Data: data})
		if err != nil {
			return "", fmt.Errorf("write-tree %q: %w", childRel, err)
		}
		entries = append(entries, object.TreeEntry{
			Name:     name,
			Mode:     modeFromFileInfo(info),
			BlobHash: blobHash,
		})
	}

	return r.Store.PutTree(&object.TreeObj{Entries: entries})
}

// BuildTreeFromIndex builds a single flat tree from the index ("commit"
// semantics): each entry's terminal path component becomes the tree entry
// name, with the entry's own mode and digest. Sibling entries whose
// terminal components collide (e.g. "sub/x.txt" and "x.txt") surface as a
// DuplicateName error from the tree encoder — this is the deliberate cost
// of flattening nested paths into one level.
func (r *Repo) BuildTreeFromIndex(entries []IndexEntry) (object.Hash, error) {
	treeEntries := make([]object.TreeEntry, 0, len(entries))
	for _, e := range entries {
		name := e.Path
		if slash := strings.LastIndexByte(name, '/'); slash >= 0 {
			name = name[slash+1:]
		}
		treeEntries = append(treeEntries, object.TreeEntry{
			Name:     name,
			Mode:     e.Mode,
			BlobHash: e.Digest,
		})
	}

	h, err := r.Store.PutTree(&object.TreeObj{Entries: treeEntries})
	if err != nil {
		return "", fmt.Errorf("build tree from index: %w", err)
	}
	return h, nil
}

// FlattenTree walks a tree object recursively, returning every file entry
// with its full slash-separated path.
func (r *Repo) FlattenTree(h object.Hash) ([]TreeFileEntry, error) {
	return r.flattenTreeRec(h, "")
}

func (r *Repo) flattenTreeRec(h object.Hash, prefix string) ([]TreeFileEntry, error) {
	treeObj, err := r.Store.GetTree(h)
	if err != nil {
		return nil, fmt.Errorf("flatten tree: read %s: %w", h, err)
	}

	var result []TreeFileEntry
	for _, entry := range treeObj.Entries {
		fullPath := entry.Name
		if prefix != "" {
			fullPath = path.Join(prefix, entry.Name)
		}

		if entry.IsDir {
			sub, err := r.flattenTreeRec(entry.TreeHash, fullPath)
			if err != nil {
				return nil, err
			}
			result = append(result, sub...)
		} else {
			result = append(result, TreeFileEntry{Path: fullPath, Hash: entry.BlobHash, Mode: entry.Mode})
		}
	}
	return result, nil
}
