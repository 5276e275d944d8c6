// Package crew defines the documentation crew: its five roles, the task
// specs built for each run, progress events, and run results.
package crew

import "time"

// Role is a configured delegate. Roles differ only in data and are never
// mutated after package initialization.
type Role struct {
	Key             string `json:"key"`
	Name            string `json:"role"`
	Goal            string `json:"goal"`
	Backstory       string `json:"backstory"`
	AllowDelegation bool   `json:"allow_delegation"`
}

// Role keys double as agent names in progress events.
const (
	KeyAnalyst        = "code_analyzer"
	KeyAPIDocumenter  = "api_documenter"
	KeyReadmeWriter   = "readme_writer"
	KeyExampleCreator = "example_creator"
	KeyEditor         = "editor"
)

var (
	Analyst = Role{
		Key:  KeyAnalyst,
		Name: "Senior Code Analyst",
		Goal: "Analyze repository structure, identify key components, patterns, and architectural decisions",
		Backstory: "You are an experienced software architect with 15+ years of experience " +
			"analyzing codebases across multiple languages and frameworks. You excel at quickly " +
			"understanding project structure, identifying design patterns, and recognizing " +
			"architectural decisions. You provide clear, concise analysis that helps others " +
			"understand complex codebases.",
	}

	APIDocumenter = Role{
		Key:  KeyAPIDocumenter,
		Name: "API Documentation Specialist",
		Goal: "Extract and document all APIs, endpoints, and interfaces with clear examples",
		Backstory: "You are an API documentation expert who has documented hundreds of " +
			"APIs for major tech companies. You understand REST principles, GraphQL schemas, " +
			"and various API patterns. You excel at creating documentation that includes " +
			"clear examples, request/response formats, and authentication details. Your " +
			"documentation helps developers integrate with APIs quickly and correctly.",
	}

	ReadmeWriter = Role{
		Key:  KeyReadmeWriter,
		Name: "Technical Documentation Writer",
		Goal: "Create clear, comprehensive, and user-friendly README documentation",
		Backstory: "You are a skilled technical writer with expertise in creating " +
			"documentation that developers love. You understand how to balance technical " +
			"accuracy with readability, and you know what information developers need to " +
			"quickly understand and use a project. You follow README best practices and " +
			"create documentation that is both informative and engaging.",
	}

	ExampleCreator = Role{
		Key:  KeyExampleCreator,
		Name: "Developer Advocate",
		Goal: "Create practical, real-world examples that demonstrate project usage",
		Backstory: "You are a developer advocate with years of experience helping " +
			"developers learn new tools and libraries. You understand that good examples " +
			"are worth a thousand words of documentation. You create examples that are " +
			"simple enough to understand but realistic enough to be useful. You always " +
			"consider common use cases and edge cases that developers might encounter.",
	}

	Editor = Role{
		Key:  KeyEditor,
		Name: "Senior Technical Editor",
		Goal: "Review, refine, and ensure consistency across all documentation",
		Backstory: "You are a meticulous technical editor with a keen eye for detail. " +
			"You've edited documentation for major open-source projects and tech companies. " +
			"You ensure consistency in tone, style, and formatting while maintaining technical " +
			"accuracy. You catch errors others miss and transform good documentation into " +
			"great documentation. You follow industry best practices and style guides.",
	}
)

// Roles returns the five roles in pipeline order.
func Roles() []Role {
	return []Role{Analyst, APIDocumenter, ReadmeWriter, ExampleCreator, Editor}
}

// RoleOutput is a single role's output shaped for clients.
type RoleOutput struct {
	Agent     string    `json:"agent"`
	Role      string    `json:"role"`
	Output    string    `json:"output"`
	Timestamp time.Time `json:"timestamp"`
}

// FormatOutput wraps a raw task output with the role that produced it.
func (r Role) FormatOutput(output string, at time.Time) RoleOutput {
	return RoleOutput{Agent: r.Key, Role: r.Name, Output: output, Timestamp: at}
}
