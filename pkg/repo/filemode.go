package repo

import (
	"os"

	"github.com/strata-vc/strata/pkg/object"
)

// modeFromFileInfo derives a tree/index mode string from the owner-execute
// bit: 100755 if set, else 100644. Directories are handled separately by
// the snapshot engine (040000).
func modeFromFileInfo(info os.FileInfo) string {
	if info.Mode()&0o100 != 0 {
		return object.ModeExecutable
	}
	return object.ModeFile
}

func normalizeFileMode(mode string) string {
	if mode == object.ModeExecutable {
		return object.ModeExecutable
	}
	return object.ModeFile
}

func filePermFromMode(mode string) os.FileMode {
	if normalizeFileMode(mode) == object.ModeExecutable {
		return 0o755
	}
	return 0o644
}
