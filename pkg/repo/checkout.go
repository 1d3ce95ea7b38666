package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/strata-vc/strata/pkg/object"
)

// Checkout restores the working directory to the state of the given commit
// digest and moves HEAD to it.
//
// State machine: Resolved -> Cleared -> Written -> HeadMoved.
//
//  1. Resolve the commit and its tree.
//  2. Clear: for each immediate child of the working directory root other
//     than the repository directory, delete it recursively. A per-entry
//     deletion failure is downgraded to a warning; clearing continues.
//  3. Write: recursively walk the tree, creating directories and writing
//     blob contents to their paths.
//  4. Move HEAD to the checked-out commit via the current ref.
//
// Checkout never writes to the object store. A missing referenced blob
// aborts with CorruptObject after best-effort progress on files already
// written; there is no rollback.
func (r *Repo) Checkout(commitDigest object.Hash) error {
	commit, err := r.Store.GetCommit(commitDigest)
	if err != nil {
		return fmt.Errorf("checkout: resolve commit %s: %w", commitDigest, err)
	}

	targetFiles, err := r.FlattenTree(commit.TreeHash)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	if err := r.clearWorkingDir(); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	for _, f := range targetFiles {
		absPath := filepath.Join(r.RootDir, filepath.FromSlash(f.Path))

		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return fmt.Errorf("checkout: mkdir for %q: %w", f.Path, err)
		}

		blob, err := r.Store.GetBlob(f.Hash)
		if err != nil {
			if errors.Is(err, object.ErrNotFound) {
				return fmt.Errorf("checkout: read blob for %q: %w: %v", f.Path, object.ErrCorruptObject, err)
			}
			return fmt.Errorf("checkout: read blob for %q: %w", f.Path, err)
		}

		if err := os.WriteFile(absPath, blob.Data, filePermFromMode(f.Mode)); err != nil {
			return fmt.Errorf("checkout: write %q: %w", f.Path, err)
		}
	}

	if err := r.UpdateHead(commitDigest); err != nil {
		return fmt.Errorf("checkout: move head: %w", err)
	}

	return nil
}

// clearWorkingDir deletes every immediate child of the working directory
// root other than the repository directory, recursively. Per-entry
// failures are reported as warnings on stderr and do not abort the clear.
func (r *Repo) clearWorkingDir() error {
	children, err := os.ReadDir(r.RootDir)
	if err != nil {
		return fmt.Errorf("read working dir: %w", err)
	}

	for _, c := range children {
		absPath := filepath.Join(r.RootDir, c.Name())
		if absPath == r.StrataDir {
			continue
		}
		if err := os.RemoveAll(absPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: checkout: could not remove %q: %v\n", absPath, err)
		}
	}
	return nil
}
