package object

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNotFound marks a missing object or reference target.
var ErrNotFound = errors.New("not found")

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123...
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given .strata directory. The
// objects/ subdirectory is created lazily on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
}

// Exists reports whether the store contains an object with the given hash.
func (s *Store) Exists(h Hash) bool {
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Put stores an object and returns its content hash. The on-disk format is
// the compressed form of "type len\0content". Writes are atomic: data is
// written to a temp file and then renamed into place. Writing the same
// digest twice is a no-op in effect.
func (s *Store) Put(objType ObjectType, data []byte) (Hash, error) {
	envelope := fmt.Sprintf("%s %d\x00", objType, len(data))
	raw := append([]byte(envelope), data...)

	h := HashObject(objType, data)

	if s.Exists(h) {
		return h, nil
	}

	compressed, err := Compress(raw)
	if err != nil {
		return "", fmt.Errorf("object put %s: %w", h, err)
	}

	dir := filepath.Join(s.root, "objects", string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object put %s: mkdir: %w", h, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("object put %s: tmpfile: %w", h, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object put %s: write: %w", h, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object put %s: close: %w", h, err)
	}

	dest := s.objectPath(h)
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object put %s: rename: %w", h, err)
	}

	return h, nil
}

// Get retrieves an object by hash, returning its type and payload (the
// canonical envelope with the header stripped).
func (s *Store) Get(h Hash) (ObjectType, []byte, error) {
	compressed, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("object get %s: %w", h, ErrNotFound)
		}
		return "", nil, fmt.Errorf("object get %s: %w", h, err)
	}

	raw, err := Decompress(compressed)
	if err != nil {
		return "", nil, fmt.Errorf("object get %s: %w", h, err)
	}

	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("%w: object %s has no envelope terminator", ErrCorruptObject, h)
	}
	header := string(raw[:nulIdx])
	payload := raw[nulIdx+1:]

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("%w: object %s invalid header %q", ErrCorruptObject, h, header)
	}
	objType := ObjectType(parts[0])
	length, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("%w: object %s invalid length %q: %v", ErrCorruptObject, h, parts[1], err)
	}
	if len(payload) != length {
		return "", nil, fmt.Errorf("%w: object %s length mismatch (header=%d, actual=%d)", ErrCorruptObject, h, length, len(payload))
	}

	return objType, payload, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// PutBlob serializes and stores a Blob.
func (s *Store) PutBlob(b *Blob) (Hash, error) {
	return s.Put(TypeBlob, MarshalBlob(b))
}

// GetBlob reads and deserializes a Blob.
func (s *Store) GetBlob(h Hash) (*Blob, error) {
	objType, data, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeBlob {
		return nil, fmt.Errorf("%w: object %s: type mismatch: got %q, want %q", ErrInvalidArgument, h, objType, TypeBlob)
	}
	return UnmarshalBlob(data)
}

// PutTree serializes and stores a TreeObj.
func (s *Store) PutTree(tr *TreeObj) (Hash, error) {
	payload, err := MarshalTree(tr)
	if err != nil {
		return "", err
	}
	return s.Put(TypeTree, payload)
}

// GetTree reads and deserializes a TreeObj.
func (s *Store) GetTree(h Hash) (*TreeObj, error) {
	objType, data, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeTree {
		return nil, fmt.Errorf("%w: object %s: type mismatch: got %q, want %q", ErrInvalidArgument, h, objType, TypeTree)
	}
	return UnmarshalTree(data)
}

// PutCommit serializes and stores a CommitObj.
func (s *Store) PutCommit(c *CommitObj) (Hash, error) {
	return s.Put(TypeCommit, MarshalCommit(c))
}

// GetCommit reads and deserializes a CommitObj.
func (s *Store) GetCommit(h Hash) (*CommitObj, error) {
	objType, data, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeCommit {
		return nil, fmt.Errorf("%w: object %s: type mismatch: got %q, want %q", ErrInvalidArgument, h, objType, TypeCommit)
	}
	return UnmarshalCommit(data)
}
