package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/neckcare/neckscan/internal/analysis"
	"github.com/neckcare/neckscan/internal/discovery"
	"github.com/neckcare/neckscan/internal/server"
	"github.com/neckcare/neckscan/internal/session"
)

func sampleResult() *analysis.Result {
	return &analysis.Result{
		Level:           1,
		Nickname:        "매끈한 백조",
		SkinAge:         24,
		SimilarityEmoji: "🦢",
		Description:     "d",
		Advice:          "a",
		CareRoutine:     "1단계 보습 2단계 자외선 차단",
	}
}

func testImage() analysis.Image {
	return analysis.Image{Data: []byte{0xFF, 0xD8, 0xFF, 0xE0}, MIMEType: "image/jpeg", Name: "neck.jpg"}
}

// startServer runs a real neckscan server around analyzer
func startServer(t *testing.T, analyzer analysis.AnalyzerFunc) *Client {
	t.Helper()
	srv, err := server.New(&server.Config{Analyzer: analyzer})
	if err != nil {
		t.Fatalf("server.New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c := NewClient(ts.URL + "/")
	c.RetryDelay = time.Millisecond
	return c
}

func TestAnalyze_Success(t *testing.T) {
	var received analysis.Image
	c := startServer(t, func(ctx context.Context, img analysis.Image) (*analysis.Result, error) {
		received = img
		return sampleResult(), nil
	})

	got, err := c.Analyze(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if diff := cmp.Diff(sampleResult(), got); diff != "" {
		t.Errorf("Analyze() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(testImage(), received); diff != "" {
		t.Errorf("server received a different image (-want +got):\n%s", diff)
	}
}

func TestAnalyze_ServerMessagePassesThrough(t *testing.T) {
	c := startServer(t, func(ctx context.Context, img analysis.Image) (*analysis.Result, error) {
		return nil, analysis.NewMalformedError("bad json", nil)
	})

	_, err := c.Analyze(context.Background(), testImage())
	if !analysis.IsTransportError(err) {
		t.Fatalf("Analyze() error = %v, want transport error", err)
	}
	if got := analysis.UserMessage(err); got != analysis.MalformedMessage {
		t.Errorf("UserMessage() = %q, want %q", got, analysis.MalformedMessage)
	}
}

func TestAnalyze_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := NewClient(url).Analyze(context.Background(), testImage())
	if !analysis.IsTransportError(err) {
		t.Fatalf("Analyze() error = %v, want transport error", err)
	}
}

func TestAnalyze_NonJSONError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).Analyze(context.Background(), testImage())
	if !analysis.IsTransportError(err) {
		t.Fatalf("Analyze() error = %v, want transport error", err)
	}
}

func TestAnalyze_MalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"snapshot": {"state": "result"}}`))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).Analyze(context.Background(), testImage())
	if !analysis.IsMalformedError(err) {
		t.Fatalf("Analyze() error = %v, want malformed error", err)
	}
}

func TestAnalyze_DrivesSession(t *testing.T) {
	c := startServer(t, func(ctx context.Context, img analysis.Image) (*analysis.Result, error) {
		return sampleResult(), nil
	})

	machine := session.New(c, session.WithLoadingInterval(time.Hour))
	defer machine.Close()

	updates, unsubscribe := machine.Subscribe()
	defer unsubscribe()

	if err := machine.SubmitImage(testImage()); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case snap := <-updates:
			if snap.State == session.StateResult {
				if snap.Result.Nickname != "매끈한 백조" {
					t.Errorf("nickname = %q", snap.Result.Nickname)
				}
				return
			}
			if snap.State == session.StateError {
				t.Fatalf("session failed: %s", snap.Error)
			}
		case <-timeout:
			t.Fatal("session did not finish")
		}
	}
}

func TestHealth(t *testing.T) {
	c := startServer(t, func(ctx context.Context, img analysis.Image) (*analysis.Result, error) {
		return sampleResult(), nil
	})

	health, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if health.Status != "ok" || health.Version == "" {
		t.Errorf("Health() = %+v", health)
	}
}

func TestHealth_RetriesThenFails(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	c.MaxRetries = 2
	c.RetryDelay = time.Millisecond

	if _, err := c.Health(context.Background()); err == nil {
		t.Fatal("Health() should fail")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestHealth_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	c.RetryDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.Health(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Health() error = %v, want deadline exceeded", err)
	}
}

func TestNewClientForInstance(t *testing.T) {
	inst := &discovery.Instance{Name: "studio", IP: "192.168.1.20", Port: 8080}
	if got := NewClientForInstance(inst).BaseURL; got != "http://192.168.1.20:8080" {
		t.Errorf("BaseURL = %q", got)
	}
}
