package object

import (
	"bytes"
	"strings"
	"testing"
)

func TestMarshalUnmarshalBlob(t *testing.T) {
	orig := &Blob{Data: []byte("hello world\nline two")}
	data := MarshalBlob(orig)
	got, err := UnmarshalBlob(data)
	if err != nil {
		t.Fatalf("UnmarshalBlob: %v", err)
	}
	if !bytes.Equal(got.Data, orig.Data) {
		t.Errorf("Blob round-trip mismatch: got %q, want %q", got.Data, orig.Data)
	}
}

func TestMarshalBlobEmpty(t *testing.T) {
	data := MarshalBlob(&Blob{})
	if len(data) != 0 {
		t.Errorf("expected empty payload, got %d bytes", len(data))
	}
}

func TestMarshalTreeSortsEntries(t *testing.T) {
	tr := &TreeObj{Entries: []TreeEntry{
		{Name: "b", Mode: ModeFile, BlobHash: Hash(strings.Repeat("1", 40))},
		{Name: "a", Mode: ModeFile, BlobHash: Hash(strings.Repeat("2", 40))},
		{Name: "aa", Mode: ModeFile, BlobHash: Hash(strings.Repeat("3", 40))},
	}}
	data, err := MarshalTree(tr)
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	got, err := UnmarshalTree(data)
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}
	var names []string
	for _, e := range got.Entries {
		names = append(names, e.Name)
	}
	want := []string{"a", "aa", "b"}
	if len(names) != len(want) {
		t.Fatalf("entry count: got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("entry order: got %v, want %v", names, want)
			break
		}
	}
}

func TestMarshalTreeRejectsDuplicateNames(t *testing.T) {
	tr := &TreeObj{Entries: []TreeEntry{
		{Name: "x", Mode: ModeFile, BlobHash: Hash(strings.Repeat("1", 40))},
		{Name: "x", Mode: ModeFile, BlobHash: Hash(strings.Repeat("2", 40))},
	}}
	if _, err := MarshalTree(tr); err == nil {
		t.Fatal("expected error for duplicate tree entry name")
	}
}

func TestMarshalTreeRejectsIllegalName(t *testing.T) {
	tr := &TreeObj{Entries: []TreeEntry{
		{Name: "a/b", Mode: ModeFile, BlobHash: Hash(strings.Repeat("1", 40))},
	}}
	if _, err := MarshalTree(tr); err == nil {
		t.Fatal("expected error for name containing '/'")
	}
}

func TestMarshalTreeEmpty(t *testing.T) {
	data, err := MarshalTree(&TreeObj{})
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty body for empty tree, got %d bytes", len(data))
	}
	got, err := UnmarshalTree(data)
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}
	if len(got.Entries) != 0 {
		t.Errorf("expected no entries, got %d", len(got.Entries))
	}
}

func TestUnmarshalTreeTruncatedDigestIsCorrupt(t *testing.T) {
	data := []byte(ModeFile + " name\x00short")
	if _, err := UnmarshalTree(data); err == nil {
		t.Fatal("expected corrupt-object error for truncated digest")
	}
}

func TestMarshalTreeDistinguishesModes(t *testing.T) {
	tr := &TreeObj{Entries: []TreeEntry{
		{Name: "exec", Mode: ModeExecutable, BlobHash: Hash(strings.Repeat("1", 40))},
		{Name: "plain", Mode: ModeFile, BlobHash: Hash(strings.Repeat("2", 40))},
		{Name: "sub", IsDir: true, Mode: ModeDir, TreeHash: Hash(strings.Repeat("3", 40))},
	}}
	data, err := MarshalTree(tr)
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	got, err := UnmarshalTree(data)
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}
	byName := map[string]TreeEntry{}
	for _, e := range got.Entries {
		byName[e.Name] = e
	}
	if byName["exec"].Mode != ModeExecutable {
		t.Errorf("exec mode: got %q", byName["exec"].Mode)
	}
	if byName["plain"].Mode != ModeFile {
		t.Errorf("plain mode: got %q", byName["plain"].Mode)
	}
	if !byName["sub"].IsDir {
		t.Errorf("sub should be a directory entry")
	}
}

func TestMarshalUnmarshalCommitWithParent(t *testing.T) {
	c := &CommitObj{
		TreeHash:  Hash(strings.Repeat("a", 40)),
		Parent:    Hash(strings.Repeat("b", 40)),
		Author:    "Jane Doe <jane@example.com>",
		Committer: "Jane Doe <jane@example.com>",
		Timestamp: 1700000000,
		TZOffset:  "+0000",
		Message:   "first commit",
	}
	data := MarshalCommit(c)
	got, err := UnmarshalCommit(data)
	if err != nil {
		t.Fatalf("UnmarshalCommit: %v", err)
	}
	if got.TreeHash != c.TreeHash || got.Parent != c.Parent || got.Author != c.Author ||
		got.Timestamp != c.Timestamp || got.TZOffset != c.TZOffset || got.Message != c.Message+"\n" {
		t.Errorf("commit round-trip mismatch: got %+v", got)
	}
}

func TestMarshalCommitOmitsParentLineWhenAbsent(t *testing.T) {
	c := &CommitObj{
		TreeHash:  Hash(strings.Repeat("a", 40)),
		Author:    "Jane Doe <jane@example.com>",
		Committer: "Jane Doe <jane@example.com>",
		Timestamp: 1700000000,
		TZOffset:  "+0000",
		Message:   "root commit",
	}
	data := MarshalCommit(c)
	if strings.Contains(string(data), "parent ") {
		t.Errorf("expected no parent line, got: %s", data)
	}
	got, err := UnmarshalCommit(data)
	if err != nil {
		t.Fatalf("UnmarshalCommit: %v", err)
	}
	if got.Parent != "" {
		t.Errorf("expected empty parent, got %q", got.Parent)
	}
}

func TestMarshalCommitOmitsParentLineForAllZeroDigest(t *testing.T) {
	c := &CommitObj{
		TreeHash:  Hash(strings.Repeat("a", 40)),
		Parent:    Hash(strings.Repeat("0", 40)),
		Author:    "Jane Doe <jane@example.com>",
		Committer: "Jane Doe <jane@example.com>",
		Timestamp: 1700000000,
		TZOffset:  "+0000",
		Message:   "root commit",
	}
	data := MarshalCommit(c)
	if strings.Contains(string(data), "parent ") {
		t.Errorf("expected no parent line for all-zero parent, got: %s", data)
	}
}

func TestMarshalCommitAlwaysTrailingNewline(t *testing.T) {
	c := &CommitObj{
		TreeHash:  Hash(strings.Repeat("a", 40)),
		Author:    "Jane Doe <jane@example.com>",
		Committer: "Jane Doe <jane@example.com>",
		Timestamp: 1700000000,
		TZOffset:  "+0000",
		Message:   "no trailing newline in caller's message",
	}
	data := MarshalCommit(c)
	if !strings.HasSuffix(string(data), "\n") {
		t.Errorf("expected commit payload to end with newline")
	}
}
