package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Strob0t/DocuCrew/internal/domain/crew"
	"github.com/Strob0t/DocuCrew/internal/domain/repository"
)

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(out.String(), "docucrew dev") {
		t.Errorf("output = %q", out.String())
	}
}

func TestCLIFlagsOnlyChanged(t *testing.T) {
	root := newRootCmd()
	serve, _, err := root.Find([]string{"serve"})
	if err != nil {
		t.Fatal(err)
	}
	if err := serve.ParseFlags([]string{"--port", "9000", "--model", "gpt-4o"}); err != nil {
		t.Fatal(err)
	}

	flags := &rootFlags{port: "9000", model: "gpt-4o"}
	got := flags.cliFlags(serve)
	if got.Port == nil || *got.Port != "9000" {
		t.Errorf("Port = %v", got.Port)
	}
	if got.Model == nil || *got.Model != "gpt-4o" {
		t.Errorf("Model = %v", got.Model)
	}
	if got.Host != nil || got.LogLevel != nil || got.ConfigFile != nil || got.NatsURL != nil {
		t.Errorf("unset flags leaked into overrides: %+v", got)
	}
}

func TestProgressLine(t *testing.T) {
	ev := crew.ProgressEvent{
		Agent:     crew.KeyReadmeWriter,
		Status:    crew.StatusWaiting,
		Message:   crew.MsgWaitingReadme,
		Timestamp: time.Date(2025, 3, 4, 13, 14, 15, 0, time.UTC),
	}
	line := progressLine(ev)
	for _, want := range []string{"13:14:15", crew.KeyReadmeWriter, "waiting", crew.MsgWaitingReadme} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestPrintSummary(t *testing.T) {
	snap := &repository.Snapshot{
		FullName:  "acme/widget",
		Topics:    []string{"cli", "tools"},
		FileCount: 12,
	}
	var buf bytes.Buffer
	printSummary(&buf, snap, []repository.APIFile{{Name: "routes.go", Path: "api/routes.go"}})

	out := buf.String()
	for _, want := range []string{"acme/widget", "language: Unknown", "files: 12", "topics: cli, tools", "api/routes.go"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := renderMarkdown("# Widget\n\nUse it.\n", 80)
	if err != nil {
		t.Fatalf("renderMarkdown: %v", err)
	}
	if !strings.Contains(out, "Widget") || !strings.Contains(out, "Use it.") {
		t.Errorf("rendered = %q", out)
	}
}
