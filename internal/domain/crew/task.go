package crew

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/Strob0t/DocuCrew/internal/domain/repository"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var promptTemplates = template.Must(
	template.New("crew").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

// TaskSpec is one unit of work handed to the execution engine.
type TaskSpec struct {
	Description    string `json:"description"`
	Role           Role   `json:"role"`
	ExpectedOutput string `json:"expected_output"`
}

// Batch is the ordered set of task specs for one run. Its length is always
// BatchSize and its order always follows Roles().
type Batch []TaskSpec

// BatchSize is the number of task specs in every batch.
const BatchSize = 5

// Expected-output contracts per task.
const (
	ExpectAnalysis = "Detailed analysis of repository structure and patterns"
	ExpectAPIDocs  = "Complete API documentation with examples"
	ExpectReadme   = "Comprehensive README documentation"
	ExpectExamples = "Practical usage examples with code"
	ExpectEdit     = "Polished final documentation package"
)

type analysisData struct {
	Name      string
	FileCount int
	Language  string
	Structure string
}

type apiDocsData struct {
	APIFiles []repository.APIFile
}

type readmeData struct {
	FullName    string
	Description string
	Topics      []string
	Languages   []string
	KeyFiles    []string
}

type examplesData struct {
	Type       string
	Features   []string
	APISummary []string
}

// editData carries prior drafts into the edit prompt. The drafts are left
// empty when building a batch: the engine supplies earlier task outputs as
// context at execution time.
type editData struct {
	README   string
	APIDocs  string
	Examples string
}

// BuildBatch builds the five task specs for a snapshot, in pipeline order.
func BuildBatch(snap *repository.Snapshot) (Batch, error) {
	if snap == nil {
		return nil, fmt.Errorf("build batch: nil snapshot")
	}
	apiFiles := repository.FindAPIFiles(snap.Structure)

	apiNames := make([]string, 0, len(apiFiles))
	for _, f := range apiFiles {
		apiNames = append(apiNames, f.Name)
	}

	steps := []struct {
		role     Role
		tmpl     string
		data     any
		expected string
	}{
		{Analyst, "analysis.tmpl", analysisData{
			Name:      snap.Name,
			FileCount: snap.FileCount,
			Language:  snap.PrimaryLanguage,
			Structure: repository.FormatTree(snap.Structure),
		}, ExpectAnalysis},
		{APIDocumenter, "api_docs.tmpl", apiDocsData{APIFiles: apiFiles}, ExpectAPIDocs},
		{ReadmeWriter, "readme.tmpl", readmeData{
			FullName:    snap.FullName,
			Description: snap.Description,
			Topics:      snap.Topics,
			Languages:   languagesBySize(snap.Languages),
			KeyFiles:    keyFileNames(snap.KeyFiles),
		}, ExpectReadme},
		{ExampleCreator, "examples.tmpl", examplesData{
			Type:       snap.PrimaryLanguage,
			Features:   snap.Topics,
			APISummary: apiNames,
		}, ExpectExamples},
		{Editor, "edit.tmpl", editData{}, ExpectEdit},
	}

	batch := make(Batch, 0, BatchSize)
	for _, s := range steps {
		desc, err := render(s.tmpl, s.data)
		if err != nil {
			return nil, fmt.Errorf("build batch: %s: %w", s.role.Key, err)
		}
		batch = append(batch, TaskSpec{Description: desc, Role: s.role, ExpectedOutput: s.expected})
	}
	return batch, nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// languagesBySize orders language names by byte count, largest first.
func languagesBySize(langs map[string]int64) []string {
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if langs[names[i]] != langs[names[j]] {
			return langs[names[i]] > langs[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

func keyFileNames(files map[string]string) []string {
	var names []string
	for _, candidate := range repository.KeyFileCandidates {
		if _, ok := files[candidate]; ok {
			names = append(names, candidate)
		}
	}
	return names
}
