package repo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/strata-vc/strata/pkg/object"
)

// ErrNothingToCommit is returned by Commit when the index is empty.
var ErrNothingToCommit = errors.New("nothing to commit")

const commitTZOffset = "+0000"

// Commit builds a commit from the current index.
//
// Steps, in order: resolve the index-derived tree digest; resolve HEAD for
// the parent digest (empty if there is none yet); build and write the
// commit object; move HEAD's target ref to the new digest; append the log;
// clear the index. Blob writes happen earlier, as part of Add; tree writes
// precede the commit write; the commit is written before HEAD moves; HEAD
// moves before the log is appended and the index is cleared.
func (r *Repo) Commit(message string) (object.Hash, error) {
	entries, err := r.LoadIndex()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("commit: %w", ErrNothingToCommit)
	}

	treeHash, err := r.BuildTreeFromIndex(entries)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	parentHash, err := r.ResolveHead()
	if err != nil {
		return "", fmt.Errorf("commit: resolve head: %w", err)
	}

	identity, err := r.Identity()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	now := time.Now().Unix()
	commitObj := &object.CommitObj{
		TreeHash:  treeHash,
		Parent:    parentHash,
		Author:    identity,
		Committer: identity,
		Timestamp: now,
		TZOffset:  commitTZOffset,
		Message:   message,
	}

	commitHash, err := r.Store.PutCommit(commitObj)
	if err != nil {
		return "", fmt.Errorf("commit: write commit: %w", err)
	}

	if err := r.UpdateHead(commitHash, parentHash); err != nil {
		return "", fmt.Errorf("commit: update head: %w", err)
	}

	if err := r.appendLog(commitHash, parentHash, message, now); err != nil {
		return "", fmt.Errorf("commit: append log: %w", err)
	}

	if err := r.ClearIndex(); err != nil {
		return "", fmt.Errorf("commit: clear index: %w", err)
	}

	return commitHash, nil
}

// Log walks commit history starting from start, following parent links,
// returning up to limit commits newest-first. limit <= 0 means unbounded.
func (r *Repo) Log(start object.Hash, limit int) ([]*object.CommitObj, error) {
	var commits []*object.CommitObj
	current := start

	for current != "" && !isAllZeroHash(current) {
		if limit > 0 && len(commits) >= limit {
			break
		}
		c, err := r.Store.GetCommit(current)
		if err != nil {
			if errors.Is(err, object.ErrNotFound) {
				break
			}
			return nil, fmt.Errorf("log: read commit %s: %w", current, err)
		}
		commits = append(commits, c)
		current = c.Parent
	}

	return commits, nil
}

func isAllZeroHash(h object.Hash) bool {
	return strings.Count(string(h), "0") == len(h) && len(h) > 0
}
