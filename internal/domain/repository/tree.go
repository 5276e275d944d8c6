package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

// NodeType mirrors the content type reported by the repository host.
type NodeType string

const (
	TypeDir       NodeType = "dir"
	TypeFile      NodeType = "file"
	TypeSymlink   NodeType = "symlink"
	TypeSubmodule NodeType = "submodule"
)

// MaxTreeDepth is how many directory levels below the root are expanded.
const MaxTreeDepth = 3

// Node is a file tree element. Expanded directories carry a non-nil
// Children listing (possibly empty). Every other node is a leaf descriptor,
// including directories at the depth limit.
type Node struct {
	Type     NodeType
	Size     int64
	Path     string
	Children Tree
}

// Expanded reports whether the node is a directory whose listing was walked.
func (n Node) Expanded() bool {
	return n.Children != nil
}

// Entry is a named child of a directory listing.
type Entry struct {
	Name string
	Node Node
}

// Tree is an ordered directory listing. Order is the host's listing order,
// which keeps traversals deterministic.
type Tree []Entry

// leaf is the JSON shape of a leaf descriptor.
type leaf struct {
	Type NodeType `json:"type"`
	Size int64    `json:"size"`
	Path string   `json:"path"`
}

// CountFiles returns the number of file leaves in the tree. Directories
// contribute only the files beneath them.
func CountFiles(t Tree) int {
	count := 0
	for i := range t {
		n := &t[i].Node
		switch {
		case n.Expanded():
			count += CountFiles(n.Children)
		case n.Type == TypeFile:
			count++
		}
	}
	return count
}

// Walk visits every entry in pre-order with its slash-joined path relative
// to the tree root. Returning false from fn stops the walk.
func Walk(t Tree, fn func(p string, e *Entry) bool) {
	walk(t, "", fn)
}

func walk(t Tree, prefix string, fn func(p string, e *Entry) bool) bool {
	for i := range t {
		e := &t[i]
		p := e.Name
		if prefix != "" {
			p = path.Join(prefix, e.Name)
		}
		if !fn(p, e) {
			return false
		}
		if e.Node.Expanded() && !walk(e.Node.Children, p, fn) {
			return false
		}
	}
	return true
}

// Lookup returns the node at a slash-separated path, if present.
func (t Tree) Lookup(p string) (Node, bool) {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	current := t
	for i, seg := range segments {
		found := false
		for _, e := range current {
			if e.Name != seg {
				continue
			}
			if i == len(segments)-1 {
				return e.Node, true
			}
			current = e.Node.Children
			found = true
			break
		}
		if !found {
			return Node{}, false
		}
	}
	return Node{}, false
}

// MarshalJSON encodes the listing as an object whose keys keep tree order.
func (t Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t[i].Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := t[i].Node.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", t[i].Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes expanded directories as nested objects and everything
// else as a {type, size, path} descriptor.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.Expanded() {
		return n.Children.MarshalJSON()
	}
	return json.Marshal(leaf{Type: n.Type, Size: n.Size, Path: n.Path})
}

// UnmarshalJSON decodes a listing produced by MarshalJSON, preserving key order.
func (t *Tree) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("tree: expected object, got %v", tok)
	}

	tree := Tree{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("tree: expected key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("tree: decode %q: %w", name, err)
		}
		node, err := decodeNode(raw)
		if err != nil {
			return fmt.Errorf("tree: decode %q: %w", name, err)
		}
		tree = append(tree, Entry{Name: name, Node: node})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*t = tree
	return nil
}

// decodeNode treats an object with a string "type" member as a leaf.
func decodeNode(raw json.RawMessage) (Node, error) {
	var probe struct {
		Type json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Node{}, err
	}
	if len(probe.Type) > 0 && probe.Type[0] == '"' {
		var l leaf
		if err := json.Unmarshal(raw, &l); err != nil {
			return Node{}, err
		}
		return Node{Type: l.Type, Size: l.Size, Path: l.Path}, nil
	}

	var children Tree
	if err := children.UnmarshalJSON(raw); err != nil {
		return Node{}, err
	}
	return Node{Type: TypeDir, Children: children}, nil
}
