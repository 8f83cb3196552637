package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/neckcare/neckscan/internal/analysis"
	"github.com/neckcare/neckscan/internal/session"
)

var testImage = analysis.Image{Data: []byte{1, 2, 3}, MIMEType: "image/jpeg", Name: "neck.jpg"}

func newTestRunner(buf *bytes.Buffer, quiet bool) *Runner {
	return NewRunner(RunnerConfig{
		Title:   "Neck Scan",
		Command: "neckscan analyze",
		Params:  []Param{{Key: "Image", Value: "neck.jpg"}},
		Quiet:   quiet,
	}, NewPrinter(buf).SetWidth(100))
}

func TestRunner_Result(t *testing.T) {
	m := session.New(analysis.AnalyzerFunc(func(ctx context.Context, img analysis.Image) (*analysis.Result, error) {
		return &analysis.Result{Level: 2, Nickname: "잔물결", SkinAge: 33, SimilarityEmoji: "🙂",
			Description: "d", Advice: "a", CareRoutine: "1단계 x 2단계 y"}, nil
	}))
	defer m.Close()

	var buf bytes.Buffer
	snap, err := newTestRunner(&buf, false).Run(context.Background(), m, testImage)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if snap.State != session.StateResult {
		t.Fatalf("State = %v, want result", snap.State)
	}

	out := buf.String()
	for _, want := range []string{"NECK SCAN", "neck.jpg", CompletedStep, "잔물결", "잔잔한 파도"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRunner_Error(t *testing.T) {
	m := session.New(analysis.AnalyzerFunc(func(ctx context.Context, img analysis.Image) (*analysis.Result, error) {
		return nil, errors.New("quota exceeded")
	}))
	defer m.Close()

	var buf bytes.Buffer
	snap, err := newTestRunner(&buf, false).Run(context.Background(), m, testImage)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if snap.State != session.StateError || snap.Error != "quota exceeded" {
		t.Fatalf("snapshot = %+v, want error state with message", snap)
	}
	if !strings.Contains(buf.String(), "quota exceeded") {
		t.Error("error box should show the message")
	}
}

func TestRunner_Quiet(t *testing.T) {
	m := session.New(analysis.AnalyzerFunc(func(ctx context.Context, img analysis.Image) (*analysis.Result, error) {
		return nil, errors.New("x")
	}))
	defer m.Close()

	var buf bytes.Buffer
	if _, err := newTestRunner(&buf, true).Run(context.Background(), m, testImage); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("quiet runner should print nothing, got %q", buf.String())
	}
}

func TestRunner_ContextCancelled(t *testing.T) {
	m := session.New(analysis.AnalyzerFunc(func(ctx context.Context, img analysis.Image) (*analysis.Result, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), session.WithLoadingInterval(5*time.Millisecond))
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	snap, err := newTestRunner(&buf, false).Run(ctx, m, testImage)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want deadline exceeded", err)
	}
	if snap.State != session.StateIdle {
		t.Errorf("State = %v, want idle after cancellation", snap.State)
	}
}
