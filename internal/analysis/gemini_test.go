package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"
)

const validResponse = `{"level":3,"nickname":"접힌 흔적의 미학","skinAge":29,"similarityEmoji":"🙂","description":"d","advice":"a","careRoutine":"1단계 foo 2단계 bar"}`

// fakeGenerator records calls and returns canned responses
type fakeGenerator struct {
	text  string
	err   error
	calls int

	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.gotModel = model
	f.gotContents = contents
	f.gotConfig = config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}}},
		},
	}, nil
}

func testImage() Image {
	return Image{Data: []byte{0xFF, 0xD8, 0xFF, 0xE0}, MIMEType: "image/jpeg", Name: "neck.jpg"}
}

func TestGeminiClient_Analyze_Success(t *testing.T) {
	gen := &fakeGenerator{text: validResponse}
	client := NewGeminiClientWithGenerator(gen, "")

	got, err := client.Analyze(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	want := &Result{
		Level:           3,
		Nickname:        "접힌 흔적의 미학",
		SkinAge:         29,
		SimilarityEmoji: "🙂",
		Description:     "d",
		Advice:          "a",
		CareRoutine:     "1단계 foo 2단계 bar",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Analyze() mismatch (-want +got):\n%s", diff)
	}

	if gen.calls != 1 {
		t.Errorf("GenerateContent called %d times, want exactly 1", gen.calls)
	}
}

func TestGeminiClient_Analyze_RequestShape(t *testing.T) {
	gen := &fakeGenerator{text: validResponse}
	client := NewGeminiClientWithGenerator(gen, "gemini-test")

	if _, err := client.Analyze(context.Background(), testImage()); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if gen.gotModel != "gemini-test" {
		t.Errorf("model = %q, want gemini-test", gen.gotModel)
	}

	if len(gen.gotContents) != 1 {
		t.Fatalf("contents = %d, want 1", len(gen.gotContents))
	}
	parts := gen.gotContents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("parts = %d, want 2 (image + prompt)", len(parts))
	}
	if parts[0].InlineData == nil || parts[0].InlineData.MIMEType != "image/jpeg" {
		t.Errorf("first part should be inline image/jpeg data, got %+v", parts[0])
	}
	if parts[1].Text != Prompt {
		t.Error("second part should be the instruction prompt")
	}

	if gen.gotConfig.ResponseMIMEType != "application/json" {
		t.Errorf("ResponseMIMEType = %q, want application/json", gen.gotConfig.ResponseMIMEType)
	}
	schema := gen.gotConfig.ResponseSchema
	if schema == nil || len(schema.Required) != 7 || len(schema.Properties) != 7 {
		t.Fatalf("schema should require seven properties, got %+v", schema)
	}
}

func TestGeminiClient_Analyze_TransportError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("503 service unavailable")}
	client := NewGeminiClientWithGenerator(gen, "")

	_, err := client.Analyze(context.Background(), testImage())
	if !IsTransportError(err) {
		t.Fatalf("error should be transport error, got %T: %v", err, err)
	}
	if got := UserMessage(err); got != "503 service unavailable" {
		t.Errorf("UserMessage() = %q, want underlying message", got)
	}
}

func TestGeminiClient_Analyze_Timeout(t *testing.T) {
	gen := &fakeGenerator{err: context.DeadlineExceeded}
	client := NewGeminiClientWithGenerator(gen, "")

	_, err := client.Analyze(context.Background(), testImage())
	if !IsTimeout(err) {
		t.Errorf("IsTimeout() = false for %v", err)
	}
	if got := UserMessage(err); got != TimeoutMessage {
		t.Errorf("UserMessage() = %q, want %q", got, TimeoutMessage)
	}
}

func TestGeminiClient_Analyze_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", "I cannot analyze this image."},
		{"empty", ""},
		{"missing field", `{"level":2,"nickname":"n","skinAge":30,"similarityEmoji":"x","description":"d","advice":"a"}`},
		{"level zero", `{"level":0,"nickname":"n","skinAge":30,"similarityEmoji":"x","description":"d","advice":"a","careRoutine":"c"}`},
		{"level six", `{"level":6,"nickname":"n","skinAge":30,"similarityEmoji":"x","description":"d","advice":"a","careRoutine":"c"}`},
		{"fractional level", `{"level":2.5,"nickname":"n","skinAge":30,"similarityEmoji":"x","description":"d","advice":"a","careRoutine":"c"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewGeminiClientWithGenerator(&fakeGenerator{text: tt.text}, "")

			_, err := client.Analyze(context.Background(), testImage())
			if !IsMalformedError(err) {
				t.Fatalf("error should be malformed, got %v", err)
			}
			if got := UserMessage(err); got != MalformedMessage {
				t.Errorf("UserMessage() = %q, want fixed malformed message", got)
			}
		})
	}
}

func TestGeminiClient_Analyze_EmptyImage(t *testing.T) {
	gen := &fakeGenerator{text: validResponse}
	client := NewGeminiClientWithGenerator(gen, "")

	_, err := client.Analyze(context.Background(), Image{})
	if err == nil {
		t.Fatal("Analyze() should fail for empty image")
	}
	if gen.calls != 0 {
		t.Error("no remote call should be made for an empty image")
	}
}

func TestParseResult_WholeNumberFloatLevel(t *testing.T) {
	res, err := ParseResult(strings.Replace(validResponse, `"level":3`, `"level":4.0`, 1))
	if err != nil {
		t.Fatalf("ParseResult() error = %v", err)
	}
	if res.Level != 4 {
		t.Errorf("Level = %d, want 4", res.Level)
	}
}

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewGeminiClient(context.Background(), GeminiConfig{}); err == nil {
		t.Error("NewGeminiClient() should fail without an API key")
	}
}
