package repository

import (
	"fmt"
	"strings"
	"testing"
)

func TestFindAPIFilesExample(t *testing.T) {
	got := FindAPIFiles(sampleTree())
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %+v", got)
	}
	if got[0].Name != "users.py" || got[0].Path != "src/api/users.py" {
		t.Fatalf("unexpected match %+v", got[0])
	}
}

func TestFindAPIFilesPrefersNodePath(t *testing.T) {
	tree := Tree{
		{Name: "routes.ts", Node: Node{Type: TypeFile, Path: "web/routes.ts"}},
	}
	got := FindAPIFiles(tree)
	if len(got) != 1 || got[0].Path != "web/routes.ts" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestFindAPIFilesCaseInsensitive(t *testing.T) {
	tree := Tree{
		{Name: "Controllers", Node: dir(Entry{Name: "Home.cs", Node: Node{Type: TypeFile}})},
		{Name: "UserHandlers.go", Node: Node{Type: TypeFile}},
		{Name: "main.go", Node: Node{Type: TypeFile}},
	}
	got := FindAPIFiles(tree)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %+v", got)
	}
	if got[0].Path != "Controllers/Home.cs" || got[1].Name != "UserHandlers.go" {
		t.Fatalf("unexpected order %+v", got)
	}
}

func TestFindAPIFilesSkipsLeafDirectories(t *testing.T) {
	tree := Tree{
		{Name: "api", Node: Node{Type: TypeDir, Path: "api"}},
	}
	if got := FindAPIFiles(tree); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestFindAPIFilesLimit(t *testing.T) {
	var children Tree
	for i := range 25 {
		children = append(children, Entry{Name: fmt.Sprintf("h%02d.go", i), Node: Node{Type: TypeFile}})
	}
	tree := Tree{{Name: "handlers", Node: dir(children...)}}

	got := FindAPIFiles(tree)
	if len(got) != MaxAPIFiles {
		t.Fatalf("expected %d matches, got %d", MaxAPIFiles, len(got))
	}
	if got[0].Name != "h00.go" || got[9].Name != "h09.go" {
		t.Fatalf("expected first ten in order, got %s..%s", got[0].Name, got[9].Name)
	}
	for _, f := range got {
		if !looksLikeAPI(strings.ToLower(f.Path)) {
			t.Errorf("match %+v lacks every keyword", f)
		}
	}
}

func TestFindAPIFilesDeterministic(t *testing.T) {
	tree := Tree{
		{Name: "views", Node: dir(Entry{Name: "a.py", Node: Node{Type: TypeFile}}, Entry{Name: "b.py", Node: Node{Type: TypeFile}})},
		{Name: "resolvers.js", Node: Node{Type: TypeFile}},
	}
	first := FindAPIFiles(tree)
	for range 5 {
		again := FindAPIFiles(tree)
		if fmt.Sprint(again) != fmt.Sprint(first) {
			t.Fatalf("non-deterministic result: %v vs %v", again, first)
		}
	}
}
