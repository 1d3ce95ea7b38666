package object

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidArgument marks a malformed mode, duplicate tree name, or
// otherwise illegal input to an encoder.
var ErrInvalidArgument = fmt.Errorf("invalid argument")

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to its raw payload (identity transform).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes a payload into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// MarshalTree serializes a TreeObj payload: entries sorted by Name, each
// rendered as "<mode> <name>\0<digest-hex>" and concatenated. Names must be
// non-empty and free of '/' and NUL; duplicate names fail with
// ErrInvalidArgument.
func MarshalTree(tr *TreeObj) ([]byte, error) {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)

	for _, e := range sorted {
		if e.Name == "" || strings.ContainsAny(e.Name, "/\x00") {
			return nil, fmt.Errorf("%w: illegal tree entry name %q", ErrInvalidArgument, e.Name)
		}
	}

	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Name == sorted[i-1].Name {
			return nil, fmt.Errorf("%w: duplicate tree entry name %q", ErrInvalidArgument, sorted[i].Name)
		}
	}

	var buf bytes.Buffer
	for _, e := range sorted {
		mode := e.Mode
		if mode == "" {
			mode = ModeFile
		}
		buf.WriteString(mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.WriteString(string(e.TargetHash()))
	}
	return buf.Bytes(), nil
}

// UnmarshalTree parses a TreeObj from its payload. Each record is
// "<mode> <name>\0<40-hex-digest>"; a partial trailing record is
// ErrCorruptObject.
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	i := 0
	for i < len(data) {
		spaceIdx := bytes.IndexByte(data[i:], ' ')
		if spaceIdx < 0 {
			return nil, fmt.Errorf("%w: tree entry missing mode separator", ErrCorruptObject)
		}
		mode := string(data[i : i+spaceIdx])
		i += spaceIdx + 1

		nulIdx := bytes.IndexByte(data[i:], 0)
		if nulIdx < 0 {
			return nil, fmt.Errorf("%w: tree entry missing name terminator", ErrCorruptObject)
		}
		name := string(data[i : i+nulIdx])
		i += nulIdx + 1

		if i+40 > len(data) {
			return nil, fmt.Errorf("%w: tree entry truncated digest", ErrCorruptObject)
		}
		hash := Hash(data[i : i+40])
		i += 40

		entry := TreeEntry{Name: name, Mode: mode}
		if mode == ModeDir {
			entry.IsDir = true
			entry.TreeHash = hash
		} else {
			entry.BlobHash = hash
		}
		tr.Entries = append(tr.Entries, entry)
	}
	return tr, nil
}

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

// MarshalCommit serializes a CommitObj payload per the grammar:
//
//	tree <digest>\n
//	[parent <digest>\n]
//	author <identity> <unix-seconds> <tz-offset>\n
//	committer <identity> <unix-seconds> <tz-offset>\n
//	\n
//	<message>\n
//
// The parent line is omitted when Parent is empty or the all-zero digest.
func MarshalCommit(c *CommitObj) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", string(c.TreeHash))
	if hasParent(c.Parent) {
		fmt.Fprintf(&buf, "parent %s\n", string(c.Parent))
	}
	fmt.Fprintf(&buf, "author %s %d %s\n", c.Author, c.Timestamp, c.TZOffset)
	fmt.Fprintf(&buf, "committer %s %d %s\n", c.Committer, c.Timestamp, c.TZOffset)
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	if !strings.HasSuffix(c.Message, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func hasParent(h Hash) bool {
	if h == "" {
		return false
	}
	return !isAllZero(string(h))
}

func isAllZero(s string) bool {
	for _, r := range s {
		if r != '0' {
			return false
		}
	}
	return true
}

// UnmarshalCommit parses a CommitObj from its payload. Header lines are
// read until the first blank line; the remainder is the message. Unknown
// header keys are ignored.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("%w: commit missing header/message separator", ErrCorruptObject)
	}
	header := string(data[:idx])
	message := string(data[idx+2:])

	c := &CommitObj{Message: message}
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("%w: malformed commit header line %q", ErrCorruptObject, line)
		}
		switch key {
		case "tree":
			c.TreeHash = Hash(val)
		case "parent":
			c.Parent = Hash(val)
		case "author":
			identity, ts, tz, err := parseIdentityLine(val)
			if err != nil {
				return nil, fmt.Errorf("%w: author line: %v", ErrCorruptObject, err)
			}
			c.Author = identity
			c.Timestamp = ts
			c.TZOffset = tz
		case "committer":
			identity, ts, tz, err := parseIdentityLine(val)
			if err != nil {
				return nil, fmt.Errorf("%w: committer line: %v", ErrCorruptObject, err)
			}
			c.Committer = identity
			c.Timestamp = ts
			c.TZOffset = tz
		default:
			// Unknown header keys are ignored per the grammar.
		}
	}
	return c, nil
}

// parseIdentityLine splits "<identity> <unix-seconds> <tz-offset>" into its
// three components. The committer timestamp is the last whitespace-
// separated token preceding the trailing tz-offset token.
func parseIdentityLine(val string) (identity string, timestamp int64, tzOffset string, err error) {
	fields := strings.Fields(val)
	if len(fields) < 3 {
		return "", 0, "", fmt.Errorf("expected \"<identity> <seconds> <tz>\", got %q", val)
	}
	tzOffset = fields[len(fields)-1]
	tsField := fields[len(fields)-2]
	identity = strings.Join(fields[:len(fields)-2], " ")

	ts, perr := strconv.ParseInt(tsField, 10, 64)
	if perr != nil {
		return "", 0, "", fmt.Errorf("bad timestamp %q: %w", tsField, perr)
	}
	return identity, ts, tzOffset, nil
}
