package main

import (
	"io"
	"net/http"
	"strings"
	"testing"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

func responseWith(contentType, body string) *http.Response {
	header := http.Header{}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &http.Response{
		Header: header,
		Body:   io.NopCloser(strings.NewReader(body)),
	}
}

func TestPDFHandlerCanHandle(t *testing.T) {
	handler := &PDFHandler{apiKey: "test-key"}

	tests := []struct {
		name        string
		url         string
		contentType string
		expected    bool
	}{
		{"pdf extension", "https://example.com/paper.pdf", "", true},
		{"uppercase extension", "https://example.com/PAPER.PDF", "", true},
		{"pdf content type", "https://example.com/download", "application/pdf", true},
		{"html page", "https://example.com/paper", "text/html", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := responseWith(tt.contentType, "")
			if got := handler.CanHandle(tt.url, resp); got != tt.expected {
				t.Errorf("CanHandle(%q, %q) = %v, want %v", tt.url, tt.contentType, got, tt.expected)
			}
		})
	}
}

func TestTextHandlerCanHandle(t *testing.T) {
	handler := &TextHandler{}

	tests := []struct {
		name        string
		contentType string
		expected    bool
	}{
		{"plain text", "text/plain; charset=utf-8", true},
		{"markdown", "text/markdown", true},
		{"html", "text/html", false},
		{"missing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := responseWith(tt.contentType, "")
			if got := handler.CanHandle("https://example.com/paper", resp); got != tt.expected {
				t.Errorf("CanHandle(%q) = %v, want %v", tt.contentType, got, tt.expected)
			}
		})
	}
}

func TestHTMLHandlerConvertsToMarkdown(t *testing.T) {
	handler := &HTMLHandler{converter: md.NewConverter("", true, nil)}

	resp := responseWith("text/html", "<html><body><h1>Paper Title</h1><p>Abstract text.</p></body></html>")
	result, err := handler.Handle("https://example.com/paper", resp)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if !strings.Contains(result.Text, "# Paper Title") {
		t.Errorf("Handle() text = %q, want markdown heading", result.Text)
	}
	if !strings.Contains(result.Text, "Abstract text.") {
		t.Errorf("Handle() text = %q, missing paragraph content", result.Text)
	}
}

func TestHTMLHandlerIsFallback(t *testing.T) {
	handler := &HTMLHandler{converter: md.NewConverter("", true, nil)}

	resp := responseWith("application/octet-stream", "")
	if !handler.CanHandle("https://example.com/anything", resp) {
		t.Error("HTMLHandler should handle any response as fallback")
	}
}
