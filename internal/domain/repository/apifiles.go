package repository

import "strings"

// MaxAPIFiles caps the API file shortlist.
const MaxAPIFiles = 10

// apiKeywords are matched case-insensitively against a file's name and path.
var apiKeywords = []string{
	"api", "routes", "endpoints", "controllers",
	"handlers", "views", "resolvers",
}

// APIFile is a file that probably defines API surface.
type APIFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// FindAPIFiles returns up to MaxAPIFiles file leaves whose name or path
// mentions an API keyword, in pre-order.
func FindAPIFiles(t Tree) []APIFile {
	files := make([]APIFile, 0, MaxAPIFiles)
	Walk(t, func(p string, e *Entry) bool {
		if e.Node.Expanded() || e.Node.Type != TypeFile {
			return true
		}
		if !looksLikeAPI(p) {
			return true
		}
		filePath := e.Node.Path
		if filePath == "" {
			filePath = p
		}
		files = append(files, APIFile{Name: e.Name, Path: filePath})
		return len(files) < MaxAPIFiles
	})
	return files
}

func looksLikeAPI(p string) bool {
	lower := strings.ToLower(p)
	for _, kw := range apiKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
