// Package repohost defines the port for reading repositories from a hosting service.
package repohost

import (
	"context"

	"github.com/Strob0t/DocuCrew/internal/domain/repository"
)

// DirEntry is a single item of a directory listing.
type DirEntry struct {
	Name string
	Path string
	Type repository.NodeType
	Size int64
}

// Source reads repository metadata and contents from a hosting service.
type Source interface {
	// Metadata returns the descriptive fields of the repository.
	// Fails when the repository does not exist or cannot be reached.
	Metadata(ctx context.Context, owner, name string) (*repository.Metadata, error)
	// Languages returns byte counts per language.
	Languages(ctx context.Context, owner, name string) (map[string]int64, error)
	// Topics returns the repository topics.
	Topics(ctx context.Context, owner, name string) ([]string, error)
	// ListDir lists the directory at path. The root is "".
	ListDir(ctx context.Context, owner, name, path string) ([]DirEntry, error)
	// ReadFile returns the decoded contents of the plain file at path.
	ReadFile(ctx context.Context, owner, name, path string) ([]byte, error)
}

type ctxKey struct{}

// WithToken returns a context carrying a per-request access token.
// Sources prefer it over their configured token.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, token)
}

// TokenFromContext returns the per-request access token, if any.
func TokenFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}
