package repo

import (
	"strings"
	"testing"

	"github.com/strata-vc/strata/pkg/object"
)

func testDigest(seed byte) object.Hash {
	return object.Hash(strings.Repeat(string(rune('a'+seed%26)), 40))
}

func TestFlattenTreeNestedPaths(t *testing.T) {
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	nestedHash, err := r.Store.PutTree(&object.TreeObj{
		Entries: []object.TreeEntry{
			{Name: "d.txt", Mode: object.ModeFile, BlobHash: testDigest(3)},
		},
	})
	if err != nil {
		t.Fatalf("PutTree nested: %v", err)
	}

	dirHash, err := r.Store.PutTree(&object.TreeObj{
		Entries: []object.TreeEntry{
			{Name: "a.txt", Mode: object.ModeFile, BlobHash: testDigest(4)},
			{Name: "b.txt", Mode: object.ModeFile, BlobHash: testDigest(2)},
			{Name: "nested", IsDir: true, Mode: object.ModeDir, TreeHash: nestedHash},
		},
	})
	if err != nil {
		t.Fatalf("PutTree dir: %v", err)
	}

	rootHash, err := r.Store.PutTree(&object.TreeObj{
		Entries: []object.TreeEntry{
			{Name: "dir", IsDir: true, Mode: object.ModeDir, TreeHash: dirHash},
			{Name: "m.txt", Mode: object.ModeFile, BlobHash: testDigest(5)},
			{Name: "z.txt", Mode: object.ModeFile, BlobHash: testDigest(1)},
		},
	})
	if err != nil {
		t.Fatalf("PutTree root: %v", err)
	}

	entries, err := r.FlattenTree(rootHash)
	if err != nil {
		t.Fatalf("FlattenTree: %v", err)
	}

	wantPaths := []string{"dir/a.txt", "dir/b.txt", "dir/nested/d.txt", "m.txt", "z.txt"}
	wantHashes := []object.Hash{testDigest(4), testDigest(2), testDigest(3), testDigest(5), testDigest(1)}

	if len(entries) != len(wantPaths) {
		t.Fatalf("FlattenTree returned %d entries, want %d", len(entries), len(wantPaths))
	}
	for i, wantPath := range wantPaths {
		if entries[i].Path != wantPath {
			t.Fatalf("entry[%d].Path = %q, want %q", i, entries[i].Path, wantPath)
		}
		if entries[i].Hash != wantHashes[i] {
			t.Fatalf("entry[%d].Hash = %q, want %q", i, entries[i].Hash, wantHashes[i])
		}
	}
}

func TestBuildTreeFromIndexFlattensTerminalNames(t *testing.T) {
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	entries := []IndexEntry{
		{Mode: object.ModeFile, Digest: testDigest(1), Path: "pkg/util/util.go"},
		{Mode: object.ModeFile, Digest: testDigest(2), Path: "main.go"},
	}
	h, err := r.BuildTreeFromIndex(entries)
	if err != nil {
		t.Fatalf("BuildTreeFromIndex: %v", err)
	}

	tr, err := r.Store.GetTree(h)
	if err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	if len(tr.Entries) != 2 {
		t.Fatalf("expected 2 flattened entries, got %d", len(tr.Entries))
	}
	names := map[string]bool{}
	for _, e := range tr.Entries {
		names[e.Name] = true
	}
	if !names["util.go"] || !names["main.go"] {
		t.Errorf("expected terminal names util.go and main.go, got %+v", names)
	}
}

func TestBuildTreeFromIndexCollidingTerminalNamesIsDuplicate(t *testing.T) {
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	entries := []IndexEntry{
		{Mode: object.ModeFile, Digest: testDigest(1), Path: "sub/x.txt"},
		{Mode: object.ModeFile, Digest: testDigest(2), Path: "x.txt"},
	}
	if _, err := r.BuildTreeFromIndex(entries); err == nil {
		t.Fatal("expected duplicate-name error when terminal components collide")
	}
}
