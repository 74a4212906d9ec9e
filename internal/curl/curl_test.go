package curl_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"apivet/internal/curl"
	"apivet/internal/ir"
)

func TestParse_PlainGet(t *testing.T) {
	req, err := curl.Parse("curl https://x/posts/1")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := &ir.Request{Method: "GET", URL: "https://x/posts/1", VerifyTLS: true}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_PostWithHeaderAndData(t *testing.T) {
	req, err := curl.Parse(`curl -X POST https://x -H 'Content-Type: application/json' -d '{"a":1}'`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if req.Method != "POST" {
		t.Fatalf("method = %s, want POST", req.Method)
	}
	if !req.HasHeader("Content-Type") {
		t.Fatal("Content-Type header missing")
	}
	if got := string(req.Body); got != `{"a":1}` {
		t.Fatalf("body = %s", got)
	}
}

func TestParse_DataDefaultsToPost(t *testing.T) {
	req, err := curl.Parse(`curl https://x -d 'a=1'`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if req.Method != "POST" {
		t.Fatalf("method = %s, want POST", req.Method)
	}
}

func TestParse_ExplicitMethodWinsOverData(t *testing.T) {
	req, err := curl.Parse(`curl -X PUT https://x -d 'a=1'`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if req.Method != "PUT" {
		t.Fatalf("method = %s, want PUT", req.Method)
	}
}

func TestParse_JSONFlag(t *testing.T) {
	req, err := curl.Parse(`curl https://x --json '{"a":1}'`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if req.Method != "POST" {
		t.Fatalf("method = %s, want POST", req.Method)
	}
	if !req.HasHeader("Content-Type") {
		t.Fatal("expected Content-Type to be set by --json")
	}
}

func TestParse_JSONFlagKeepsExistingContentType(t *testing.T) {
	req, err := curl.Parse(`curl https://x -H 'Content-Type: text/plain' --json '{}'`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := []ir.Header{{Name: "Content-Type", Value: "text/plain"}}
	if diff := cmp.Diff(want, req.Headers); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_DuplicateHeaderLastWins(t *testing.T) {
	req, err := curl.Parse(`curl https://x -H 'Accept: text/html' -H 'accept: application/json'`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := []ir.Header{{Name: "accept", Value: "application/json"}}
	if diff := cmp.Diff(want, req.Headers); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_HeaderValueMayContainColons(t *testing.T) {
	req, err := curl.Parse(`curl https://x -H 'Authorization: Bearer a:b:c'`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := []ir.Header{{Name: "Authorization", Value: "Bearer a:b:c"}}
	if diff := cmp.Diff(want, req.Headers); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Insecure(t *testing.T) {
	req, err := curl.Parse(`curl -k https://self-signed.local/health`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if req.VerifyTLS {
		t.Fatal("VerifyTLS should be false with -k")
	}
}

func TestParse_UserAgent(t *testing.T) {
	req, err := curl.Parse(`curl -A 'my agent/1.0' https://x`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := []ir.Header{{Name: "User-Agent", Value: "my agent/1.0"}}
	if diff := cmp.Diff(want, req.Headers); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_SchemePrepended(t *testing.T) {
	req, err := curl.Parse("curl api.example.com/v1/ping")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if req.URL != "https://api.example.com/v1/ping" {
		t.Fatalf("url = %s", req.URL)
	}
}

func TestParse_LineContinuation(t *testing.T) {
	cmd := "curl -X POST \\\n  https://x/users \\\n  -H 'Accept: application/json'"
	req, err := curl.Parse(cmd)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if req.URL != "https://x/users" || req.Method != "POST" {
		t.Fatalf("got %s %s", req.Method, req.URL)
	}
}

func TestParse_EscapedQuoteInsideQuotes(t *testing.T) {
	req, err := curl.Parse(`curl https://x -d "{\"a\":\"b\"}"`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := string(req.Body); got != `{"a":"b"}` {
		t.Fatalf("body = %s", got)
	}
}

func TestParse_UnknownFlagsIgnored(t *testing.T) {
	req, err := curl.Parse(`curl -s -L --compressed -o out.json https://x/ping`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if req.URL != "https://x/ping" {
		t.Fatalf("url = %s", req.URL)
	}
}

func TestParse_NoURL(t *testing.T) {
	_, err := curl.Parse("curl -X POST -H 'Accept: text/html'")
	if err == nil {
		t.Fatal("expected error for missing URL, got nil")
	}
	if !errors.Is(err, curl.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestParse_UnterminatedQuote(t *testing.T) {
	_, err := curl.Parse(`curl https://x -d '{"a":1}`)
	if err == nil {
		t.Fatal("expected error for unterminated quote, got nil")
	}
	if !errors.Is(err, curl.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}
