package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/strata-vc/strata/pkg/object"
)

// ErrRefCASMismatch is returned by UpdateRefCAS when the ref's current value
// does not match the caller's expected old value.
var ErrRefCASMismatch = errors.New("ref compare-and-swap mismatch")

const (
	refLockRetryDelay = 5 * time.Millisecond
	refLockWaitLimit  = 2 * time.Second
)

// Head reads .strata/HEAD. If the content starts with "ref: ", it returns
// the ref path (e.g. "refs/heads/master"). Otherwise it returns the raw
// content as a detached commit digest.
func (r *Repo) Head() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.StrataDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	content := strings.TrimRight(string(data), "\n")

	if strings.HasPrefix(content, "ref: ") {
		return strings.TrimPrefix(content, "ref: "), nil
	}
	return content, nil
}

// ResolveHead resolves HEAD to a commit digest. A missing ref target file
// is not an error: it resolves to the empty digest ("no parent"), matching
// the state of a freshly initialized repository with no commits yet.
func (r *Repo) ResolveHead() (object.Hash, error) {
	head, err := r.Head()
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(head, "refs/") {
		return r.readRefTarget(head)
	}
	return object.Hash(head), nil
}

// readRefTarget reads the digest stored at refPath (relative to .strata/).
// A missing file resolves to the empty digest rather than an error.
func (r *Repo) readRefTarget(refPath string) (object.Hash, error) {
	data, err := os.ReadFile(filepath.Join(r.StrataDir, filepath.FromSlash(refPath)))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read ref %q: %w", refPath, err)
	}
	return object.Hash(strings.TrimSpace(string(data))), nil
}

// UpdateHead writes digest to the ref file HEAD currently points at,
// creating parent directories as needed. If HEAD is detached (a raw
// digest), HEAD itself is rewritten to the new digest.
func (r *Repo) UpdateHead(digest object.Hash, expectedOld ...object.Hash) error {
	head, err := r.Head()
	if err != nil {
		return fmt.Errorf("update head: %w", err)
	}
	if strings.HasPrefix(head, "refs/") {
		return r.UpdateRefCAS(head, digest, expectedOld...)
	}
	return writeRefFileCAS(filepath.Join(r.StrataDir, "HEAD"), digest, expectedOld...)
}

// UpdateRefCAS writes digest to the named ref file under .strata/, using
// lockfile + rename atomic semantics. If expectedOld is given, the update
// only succeeds when the ref's current value matches it.
func (r *Repo) UpdateRefCAS(name string, digest object.Hash, expectedOld ...object.Hash) error {
	refPath := filepath.Join(r.StrataDir, filepath.FromSlash(name))
	return writeRefFileCAS(refPath, digest, expectedOld...)
}

func writeRefFileCAS(refPath string, digest object.Hash, expectedOld ...object.Hash) error {
	if len(expectedOld) > 1 {
		return fmt.Errorf("update ref %q: expected at most one old digest", refPath)
	}
	hasExpectedOld := len(expectedOld) == 1
	wantOld := object.Hash("")
	if hasExpectedOld {
		wantOld = expectedOld[0]
	}

	if err := os.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		return fmt.Errorf("update ref %q: mkdir: %w", refPath, err)
	}

	lockPath := refPath + ".lock"
	lockFile, err := acquireRefLock(lockPath)
	if err != nil {
		return fmt.Errorf("update ref %q: lock: %w", refPath, err)
	}
	cleanupLock := true
	defer func() {
		if lockFile != nil {
			_ = lockFile.Close()
		}
		if cleanupLock {
			_ = os.Remove(lockPath)
		}
	}()

	oldDigest, err := readRefHash(refPath)
	if err != nil {
		return fmt.Errorf("update ref %q: read old digest: %w", refPath, err)
	}
	if hasExpectedOld && oldDigest != wantOld {
		return fmt.Errorf("update ref %q: %w (expected %s, found %s)", refPath, ErrRefCASMismatch, wantOld, oldDigest)
	}

	if _, err := lockFile.WriteString(string(digest) + "\n"); err != nil {
		return fmt.Errorf("update ref %q: write: %w", refPath, err)
	}
	if err := lockFile.Sync(); err != nil {
		return fmt.Errorf("update ref %q: sync: %w", refPath, err)
	}
	if err := lockFile.Close(); err != nil {
		lockFile = nil
		return fmt.Errorf("update ref %q: close: %w", refPath, err)
	}
	lockFile = nil

	if err := os.Rename(lockPath, refPath); err != nil {
		return fmt.Errorf("update ref %q: rename: %w", refPath, err)
	}
	cleanupLock = false

	return nil
}

func acquireRefLock(lockPath string) (*os.File, error) {
	deadline := time.Now().Add(refLockWaitLimit)
	for {
		f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if os.IsExist(err) {
			if time.Now().After(deadline) {
				return nil, fmt.Errorf("timeout waiting for lock %q", lockPath)
			}
			time.Sleep(refLockRetryDelay)
			continue
		}
		return nil, err
	}
}

func readRefHash(refPath string) (object.Hash, error) {
	data, err := os.ReadFile(refPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return object.Hash(strings.TrimSpace(string(data))), nil
}
