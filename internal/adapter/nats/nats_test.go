package nats

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Strob0t/DocuCrew/internal/domain/crew"
)

// testConnect connects to NATS or skips the test if NATS_URL is not set.
func testConnect(t *testing.T, subject string) *Publisher {
	t.Helper()

	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("requires NATS_URL")
	}

	p, err := Connect(context.Background(), url, subject)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() {
		if err := p.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return p
}

func TestSubjectFor(t *testing.T) {
	p := &Publisher{subject: DefaultSubject}
	if got := p.SubjectFor(crew.KeyEditor); got != "docucrew.progress.editor" {
		t.Fatalf("unexpected subject %q", got)
	}
}

func TestPublisher_PublishSubscribe(t *testing.T) {
	p := testConnect(t, "")

	received := make(chan crew.ProgressEvent, 1)
	stop, err := p.Subscribe(context.Background(), func(ev crew.ProgressEvent) {
		received <- ev
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer stop()

	want := crew.ProgressEvent{
		RunID:     "run-" + t.Name(),
		Agent:     crew.KeyAnalyst,
		Status:    crew.StatusWorking,
		Message:   crew.MsgAnalyzing,
		Timestamp: time.Now().UTC(),
	}
	p.BroadcastProgress(context.Background(), want)

	select {
	case got := <-received:
		if got.RunID != want.RunID || got.Agent != want.Agent || got.Status != want.Status {
			t.Fatalf("unexpected event %+v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for progress event")
	}
}
