package repository

import "strings"

// FormatTree renders the tree as an indented listing, two spaces per level.
// Directories carry a trailing slash; unexpanded directories are marked.
func FormatTree(t Tree) string {
	var b strings.Builder
	formatTree(&b, t, 0)
	return strings.TrimRight(b.String(), "\n")
}

func formatTree(b *strings.Builder, t Tree, depth int) {
	indent := strings.Repeat("  ", depth)
	for i := range t {
		e := &t[i]
		b.WriteString(indent)
		b.WriteString(e.Name)
		switch {
		case e.Node.Expanded():
			b.WriteString("/\n")
			formatTree(b, e.Node.Children, depth+1)
		case e.Node.Type == TypeDir:
			b.WriteString("/ ...\n")
		default:
			b.WriteByte('\n')
		}
	}
}
