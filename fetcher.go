package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/aktagon/llmkit/anthropic"
)

// ContentResult represents an ingested source document
type ContentResult struct {
	Text   string // Markdown/plain text content
	FileID string // Uploaded file ID (for PDFs)
}

// ContentFetcher ingests source documents from local paths or URLs
type ContentFetcher struct {
	handlers []ContentHandler
	client   *http.Client
	apiKey   string
}

// NewContentFetcher creates a content fetcher with default handlers
func NewContentFetcher(apiKey string) *ContentFetcher {
	f := &ContentFetcher{
		client: &http.Client{Timeout: 60 * time.Second},
		apiKey: apiKey,
	}

	// Register handlers (most specific first)
	f.AddHandler(&PDFHandler{apiKey: apiKey})
	f.AddHandler(&TextHandler{})
	f.AddHandler(&HTMLHandler{converter: md.NewConverter("", true, nil)}) // fallback

	return f
}

// AddHandler adds a content handler to the chain
func (f *ContentFetcher) AddHandler(handler ContentHandler) {
	f.handlers = append(f.handlers, handler)
}

// FetchDocument ingests a paper from a local file path or an http(s) URL.
func (f *ContentFetcher) FetchDocument(source string) (*ContentResult, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return f.fetchURL(source)
	}
	return f.readFile(source)
}

// fetchURL fetches and processes remote content using the handler chain
func (f *ContentFetcher) fetchURL(url string) (*ContentResult, error) {
	resp, err := f.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	// Find handler based on URL + response headers
	for _, handler := range f.handlers {
		if handler.CanHandle(url, resp) {
			result, err := handler.Handle(url, resp)
			if err != nil {
				return nil, err
			}
			if result.Text == "" && result.FileID == "" {
				return nil, &InputError{Source: url, Reason: "document is empty"}
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("no handler found for %s", url)
}

// readFile ingests a local paper. PDFs are uploaded for agent consumption;
// everything else is read as plain text.
func (f *ContentFetcher) readFile(path string) (*ContentResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &InputError{Source: path, Reason: "file not found"}
	}
	if info.IsDir() {
		return nil, &InputError{Source: path, Reason: "source is a directory, expected a file"}
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		file, err := anthropic.UploadFile(path, f.apiKey)
		if err != nil {
			return nil, fmt.Errorf("uploading PDF file: %w", err)
		}
		return &ContentResult{FileID: file.ID}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, &InputError{Source: path, Reason: "document is empty"}
	}

	return &ContentResult{Text: string(data)}, nil
}

// FindDefaultPaper picks the single paper in the knowledge directory when no
// source argument was given.
func FindDefaultPaper(knowledgeDir string) (string, error) {
	entries, err := os.ReadDir(knowledgeDir)
	if err != nil {
		return "", &InputError{Source: knowledgeDir, Reason: "knowledge directory not found"}
	}

	var papers []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		papers = append(papers, filepath.Join(knowledgeDir, entry.Name()))
	}

	switch len(papers) {
	case 0:
		return "", &InputError{Source: knowledgeDir, Reason: "no papers found"}
	case 1:
		return papers[0], nil
	default:
		return "", &InputError{Source: knowledgeDir,
			Reason: fmt.Sprintf("%d papers found, pass one explicitly", len(papers))}
	}
}
