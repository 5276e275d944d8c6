package repository

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Strob0t/DocuCrew/internal/domain"
)

// ParseIdentifier extracts the owner and repository name from a reference.
// Accepts full URLs (https://github.com/owner/name/tree/main) and the
// "owner/name" shorthand. The repository is not checked for existence.
func ParseIdentifier(ref string) (owner, name string, err error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", "", fmt.Errorf("%w: empty reference", domain.ErrInvalidReference)
	}

	if strings.Contains(ref, "://") {
		u, perr := url.Parse(ref)
		if perr != nil {
			return "", "", fmt.Errorf("%w: %q: %w", domain.ErrInvalidReference, ref, perr)
		}
		if owner, name, ok := firstTwoSegments(u.Path); ok {
			return owner, strings.TrimSuffix(name, ".git"), nil
		}
		return "", "", fmt.Errorf("%w: %q: expected /owner/name path", domain.ErrInvalidReference, ref)
	}

	if owner, name, ok := firstTwoSegments(ref); ok {
		return owner, strings.TrimSuffix(name, ".git"), nil
	}
	return "", "", fmt.Errorf("%w: %q: expected owner/name", domain.ErrInvalidReference, ref)
}

// firstTwoSegments returns the first two segments of a slash-separated path.
// Both must be non-empty.
func firstTwoSegments(p string) (first, second string, ok bool) {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
