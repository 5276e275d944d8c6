package repository

import (
	"encoding/json"
	"strings"
	"testing"
)

func file(p string) Node { return Node{Type: TypeFile, Path: p} }

func dir(children ...Entry) Node {
	if children == nil {
		children = Tree{}
	}
	return Node{Type: TypeDir, Children: children}
}

func sampleTree() Tree {
	return Tree{
		{Name: "src", Node: dir(
			Entry{Name: "api", Node: dir(
				Entry{Name: "users.py", Node: Node{Type: TypeFile}},
			)},
		)},
		{Name: "README.md", Node: Node{Type: TypeFile}},
	}
}

func TestCountFiles(t *testing.T) {
	if got := CountFiles(sampleTree()); got != 2 {
		t.Fatalf("expected 2 files, got %d", got)
	}
}

func TestCountFilesIgnoresNonFileLeaves(t *testing.T) {
	tree := Tree{
		{Name: "deep", Node: Node{Type: TypeDir, Path: "deep"}},
		{Name: "link", Node: Node{Type: TypeSymlink, Path: "link"}},
		{Name: "vendor", Node: Node{Type: TypeSubmodule, Path: "vendor"}},
		{Name: "empty", Node: dir()},
		{Name: "main.go", Node: file("main.go")},
	}
	if got := CountFiles(tree); got != 1 {
		t.Fatalf("expected 1 file, got %d", got)
	}
}

func TestCountFilesAdditive(t *testing.T) {
	tree := Tree{
		{Name: "a", Node: dir(Entry{Name: "x.go", Node: file("a/x.go")}, Entry{Name: "y.go", Node: file("a/y.go")})},
		{Name: "b", Node: dir(Entry{Name: "c", Node: dir(Entry{Name: "z.go", Node: file("b/c/z.go")})})},
		{Name: "top.txt", Node: file("top.txt")},
	}

	sum := 0
	for _, e := range tree {
		sum += CountFiles(Tree{e})
	}
	if total := CountFiles(tree); total != sum || total != 4 {
		t.Fatalf("expected additive count 4, got total=%d sum=%d", total, sum)
	}
}

func TestWalkPreOrder(t *testing.T) {
	var paths []string
	Walk(sampleTree(), func(p string, _ *Entry) bool {
		paths = append(paths, p)
		return true
	})
	want := "src,src/api,src/api/users.py,README.md"
	if got := strings.Join(paths, ","); got != want {
		t.Fatalf("walk order = %s, want %s", got, want)
	}
}

func TestLookup(t *testing.T) {
	tree := sampleTree()
	if n, ok := tree.Lookup("src/api/users.py"); !ok || n.Type != TypeFile {
		t.Fatalf("expected users.py file, got %+v ok=%v", n, ok)
	}
	if _, ok := tree.Lookup("src/missing"); ok {
		t.Fatal("expected missing path to be absent")
	}
}

func TestTreeJSONKeepsOrder(t *testing.T) {
	tree := Tree{
		{Name: "zeta.go", Node: Node{Type: TypeFile, Size: 10, Path: "zeta.go"}},
		{Name: "alpha", Node: dir(Entry{Name: "b.go", Node: Node{Type: TypeFile, Size: 3, Path: "alpha/b.go"}})},
		{Name: "deep", Node: Node{Type: TypeDir, Path: "deep"}},
	}

	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"zeta.go":{"type":"file","size":10,"path":"zeta.go"},"alpha":{"b.go":{"type":"file","size":3,"path":"alpha/b.go"}},"deep":{"type":"dir","size":0,"path":"deep"}}`
	if string(data) != want {
		t.Fatalf("got  %s\nwant %s", data, want)
	}

	var decoded Tree
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 3 || decoded[0].Name != "zeta.go" || decoded[1].Name != "alpha" {
		t.Fatalf("unexpected decoded order: %+v", decoded)
	}
	if !decoded[1].Node.Expanded() {
		t.Fatal("expected alpha to decode as an expanded directory")
	}
	if decoded[2].Node.Expanded() || decoded[2].Node.Type != TypeDir {
		t.Fatal("expected deep to decode as a directory leaf")
	}
}

func TestTreeJSONDirectoryNamedType(t *testing.T) {
	data := []byte(`{"pkg":{"type":{"type":"file","size":1,"path":"pkg/type"}}}`)
	var tree Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		t.Fatal(err)
	}
	n, ok := tree.Lookup("pkg/type")
	if !ok || n.Type != TypeFile {
		t.Fatalf("expected pkg/type to be a file, got %+v", n)
	}
}
