package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/aktagon/llmkit/anthropic"
)

// ContentHandler processes URLs based on response inspection
type ContentHandler interface {
	CanHandle(url string, resp *http.Response) bool
	Handle(url string, resp *http.Response) (*ContentResult, error)
}

var debugEnabled bool

// SetDebugMode enables or disables debug logging
func SetDebugMode(enabled bool) {
	debugEnabled = enabled
}

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// PDFHandler handles PDF content
type PDFHandler struct {
	apiKey string
}

func (h *PDFHandler) CanHandle(url string, resp *http.Response) bool {
	// Check URL extension first
	if strings.HasSuffix(strings.ToLower(url), ".pdf") {
		return true
	}

	// Check content-type header
	contentType := resp.Header.Get("Content-Type")
	return strings.Contains(contentType, "application/pdf")
}

func (h *PDFHandler) Handle(url string, resp *http.Response) (*ContentResult, error) {
	// Download PDF content to a temporary file
	tempFile, err := os.CreateTemp("", "paper-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}
	defer os.Remove(tempFile.Name()) // Clean up temp file
	defer tempFile.Close()

	_, err = io.Copy(tempFile, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("downloading PDF content: %w", err)
	}

	// Close the file so it can be opened by UploadFile
	tempFile.Close()

	// Upload PDF file to Anthropic for processing
	file, err := anthropic.UploadFile(tempFile.Name(), h.apiKey)
	if err != nil {
		return nil, fmt.Errorf("uploading PDF file: %w", err)
	}

	debugLog("uploaded PDF %s as file %s", url, file.ID)
	return &ContentResult{FileID: file.ID}, nil
}

// TextHandler handles plain text content
type TextHandler struct{}

func (h *TextHandler) CanHandle(url string, resp *http.Response) bool {
	contentType := resp.Header.Get("Content-Type")
	return strings.Contains(contentType, "text/plain") ||
		strings.Contains(contentType, "text/markdown")
}

func (h *TextHandler) Handle(url string, resp *http.Response) (*ContentResult, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &ContentResult{Text: string(body)}, nil
}

// HTMLHandler handles regular HTML content (fallback)
type HTMLHandler struct {
	converter *md.Converter
}

func (h *HTMLHandler) CanHandle(url string, resp *http.Response) bool {
	return true // Always handles as fallback
}

func (h *HTMLHandler) Handle(url string, resp *http.Response) (*ContentResult, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	markdown, err := h.converter.ConvertString(string(body))
	if err != nil {
		return nil, fmt.Errorf("converting HTML to markdown: %w", err)
	}

	return &ContentResult{Text: markdown}, nil
}
