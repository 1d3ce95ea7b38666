package object

// Hash is a 40-character hex-encoded 160-bit digest.
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

const (
	// Tree mode strings, fixed-width per the canonical tree grammar.
	ModeDir        = "040000"
	ModeFile       = "100644"
	ModeExecutable = "100755"
)

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object.
type TreeEntry struct {
	Name     string
	IsDir    bool
	Mode     string // ModeDir, ModeFile, or ModeExecutable
	TreeHash Hash   // set when IsDir
	BlobHash Hash   // set otherwise
}

// TargetHash returns whichever of TreeHash/BlobHash the entry's mode refers to.
func (e TreeEntry) TargetHash() Hash {
	if e.IsDir {
		return e.TreeHash
	}
	return e.BlobHash
}

// TreeObj holds a list of tree entries, canonically sorted by Name.
type TreeObj struct {
	Entries []TreeEntry
}

// CommitObj represents a commit pointing at a tree with metadata.
type CommitObj struct {
	TreeHash  Hash
	Parent    Hash // empty for a root commit
	Author    string
	Committer string
	Timestamp int64 // unix seconds, shared by author and committer
	TZOffset  string
	Message   string
}
