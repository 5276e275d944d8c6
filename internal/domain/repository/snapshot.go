// Package repository defines the repository snapshot captured for a
// documentation run and the pure functions that operate on its file tree.
package repository

import (
	"time"
	"unicode/utf8"
)

// MaxKeyFileChars is how many characters of a key file are kept.
const MaxKeyFileChars = 1000

// KeyFileCandidates are probed in this order at the repository root.
var KeyFileCandidates = []string{
	"README.md", "readme.md", "README.rst",
	"package.json", "requirements.txt", "setup.py",
	"Cargo.toml", "go.mod", "pom.xml",
}

// Snapshot is the captured state of a repository at one point in time.
// It is not modified after GetStructure returns it.
type Snapshot struct {
	Owner           string            `json:"owner"`
	Name            string            `json:"name"`
	FullName        string            `json:"full_name"`
	Description     string            `json:"description"`
	PrimaryLanguage string            `json:"main_language"`
	Languages       map[string]int64  `json:"languages"`
	Topics          []string          `json:"topics"`
	Stars           int               `json:"stars"`
	Forks           int               `json:"forks"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Structure       Tree              `json:"structure"`
	KeyFiles        map[string]string `json:"key_files"`
	FileCount       int               `json:"file_count"`
}

// Metadata is the descriptive part of a snapshot returned by the host.
type Metadata struct {
	Name            string
	FullName        string
	Description     string
	PrimaryLanguage string
	Stars           int
	Forks           int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TruncateKeyFile keeps the first MaxKeyFileChars characters of s.
func TruncateKeyFile(s string) string {
	if utf8.RuneCountInString(s) <= MaxKeyFileChars {
		return s
	}
	n := 0
	for i := range s {
		if n == MaxKeyFileChars {
			return s[:i]
		}
		n++
	}
	return s
}
