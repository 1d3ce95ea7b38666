package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/strata-vc/strata/pkg/object"
)

// Repo represents an opened Strata repository.
type Repo struct {
	RootDir   string        // working directory root
	StrataDir string        // .strata/ directory
	Store     *object.Store // content-addressed object store
}

// Init creates a new repository at path. It creates the .strata/ directory
// structure: HEAD, objects/, refs/heads/, logs/refs/heads/. If a .strata/
// directory already exists, Init is idempotent: it opens the existing
// repository and returns it without error.
func Init(path string) (*Repo, error) {
	strataDir := filepath.Join(path, ".strata")

	if info, err := os.Stat(strataDir); err == nil && info.IsDir() {
		return Open(path)
	}

	dirs := []string{
		filepath.Join(strataDir, "objects"),
		filepath.Join(strataDir, "refs", "heads"),
		filepath.Join(strataDir, "logs", "refs", "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	headPath := filepath.Join(strataDir, "HEAD")
	if err := os.WriteFile(headPath, []byte("ref: refs/heads/master\n"), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	return &Repo{
		RootDir:   path,
		StrataDir: strataDir,
		Store:     object.NewStore(strataDir),
	}, nil
}

// Open searches upward from path for a .strata/ directory and opens the
// repository. Returns an error if no .strata/ directory is found.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		strataDir := filepath.Join(cur, ".strata")
		if info, err := os.Stat(strataDir); err == nil && info.IsDir() {
			return &Repo{
				RootDir:   cur,
				StrataDir: strataDir,
				Store:     object.NewStore(strataDir),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: not a strata repository (or any parent up to /)")
		}
		cur = parent
	}
}

// AlreadyInitialized reports whether path already has a .strata/ directory.
// Used by the init command to print "already initialized" instead of
// treating a second init as an error.
func AlreadyInitialized(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".strata"))
	return err == nil && info.IsDir()
}
