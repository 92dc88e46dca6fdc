// processor.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"
)

// ScriptAgent is the capability interface for the language-model stages.
type ScriptAgent interface {
	Summarize(doc *ContentResult) (*PaperSummary, error)
	WriteScript(summary *PaperSummary) (*PodcastScript, error)
	EnhanceScript(script *PodcastScript) (*PodcastScript, error)
}

// SpeechSynthesizer is the capability interface for voice synthesis.
type SpeechSynthesizer interface {
	SynthesizeScript(script *PodcastScript, segmentsDir string) ([]string, error)
}

// Mixer combines audio segments into one artifact.
type Mixer interface {
	Mix(segments []string, outPath string) error
}

// RunDirs is the output layout for one pipeline run
type RunDirs struct {
	Base     string
	Segments string
	Podcast  string
	Data     string
}

// PodcastProcessor handles the main workflow
type PodcastProcessor struct {
	fetcher      *ContentFetcher
	agents       ScriptAgent
	synthesizer  SpeechSynthesizer
	mixer        Mixer
	config       *Config
	keepSegments bool
}

// NewPodcastProcessor creates a processor with configured collaborators
func NewPodcastProcessor(config *Config, anthropicKey, ttsKey string) (*PodcastProcessor, error) {
	agents, err := NewAgentManager(anthropicKey, config)
	if err != nil {
		return nil, fmt.Errorf("creating agent manager: %w", err)
	}

	synthesizer, err := NewSynthesizer(ttsKey, &config.Settings.TTS)
	if err != nil {
		return nil, fmt.Errorf("creating synthesizer: %w", err)
	}

	mixer, err := NewPodcastMixer()
	if err != nil {
		return nil, fmt.Errorf("creating mixer: %w", err)
	}

	return &PodcastProcessor{
		fetcher:     NewContentFetcher(anthropicKey),
		agents:      agents,
		synthesizer: synthesizer,
		mixer:       mixer,
		config:      config,
	}, nil
}

// SetKeepSegments controls whether per-turn segment files survive a
// successful run.
func (pp *PodcastProcessor) SetKeepSegments(keep bool) {
	pp.keepSegments = keep
}

// Run executes the pipeline end-to-end for one paper. Every stage failure
// aborts the remaining pipeline.
func (pp *PodcastProcessor) Run(source string) (*ProcessingResult, error) {
	log.Printf("Processing paper: %s", source)

	log.Printf("→ Ingesting paper...")
	doc, err := pp.fetcher.FetchDocument(source)
	if err != nil {
		return nil, err
	}
	log.Printf("✓ Paper ingested")

	dirs, err := pp.setupRunDirs()
	if err != nil {
		return nil, err
	}

	summary, err := pp.agents.Summarize(doc)
	if err != nil {
		return nil, err
	}
	if err := writeJSON(dirs.Data, "paper_summary.json", summary); err != nil {
		return nil, err
	}

	script, err := pp.agents.WriteScript(summary)
	if err != nil {
		return nil, err
	}
	if err := writeJSON(dirs.Data, "podcast_script.json", script); err != nil {
		return nil, err
	}

	enhanced, err := pp.agents.EnhanceScript(script)
	if err != nil {
		return nil, err
	}
	if err := writeJSON(dirs.Data, "enhanced_podcast_script.json", enhanced); err != nil {
		return nil, err
	}

	segments, err := pp.synthesizer.SynthesizeScript(enhanced, dirs.Segments)
	if err != nil {
		return nil, err
	}

	slug := generateSlugFromTitle(summary.Title)
	podcastPath := filepath.Join(dirs.Podcast, slug+".mp3")
	if err := pp.mixer.Mix(segments, podcastPath); err != nil {
		removeFiles(segments)
		return nil, err
	}

	scriptPath := filepath.Join(dirs.Podcast, slug+".md")
	if err := pp.saveTranscript(scriptPath, source, summary, enhanced); err != nil {
		return nil, err
	}

	if !pp.keepSegments {
		removeFiles(segments)
		os.Remove(dirs.Segments)
		segments = nil
	}

	log.Printf("✓ Podcast generated: %s", podcastPath)
	return &ProcessingResult{
		Source:       source,
		PodcastPath:  podcastPath,
		ScriptPath:   scriptPath,
		Turns:        len(enhanced.Dialogue),
		GeneratedAt:  time.Now(),
		SegmentFiles: segments,
	}, nil
}

// setupRunDirs creates the timestamped output layout for one run
func (pp *PodcastProcessor) setupRunDirs() (*RunDirs, error) {
	timestamp := time.Now().Format("20060102_150405")
	base := filepath.Join(pp.config.Settings.OutputDirectory, timestamp)

	dirs := &RunDirs{
		Base:     base,
		Segments: filepath.Join(base, "segments"),
		Podcast:  filepath.Join(base, "podcast"),
		Data:     filepath.Join(base, "data"),
	}

	for _, dir := range []string{dirs.Segments, dirs.Podcast, dirs.Data} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}

	return dirs, nil
}

type transcriptLine struct {
	Host string
	Text string
}

type transcriptData struct {
	Title       string
	Source      string
	GeneratedAt time.Time
	Turns       int
	Dialogue    []transcriptLine
}

// saveTranscript renders the script transcript using the markdown template
func (pp *PodcastProcessor) saveTranscript(filename, source string, summary *PaperSummary, script *PodcastScript) error {
	tmpl, err := template.New("transcript").Parse(pp.config.GetTranscriptTemplate())
	if err != nil {
		return fmt.Errorf("parsing transcript template: %w", err)
	}

	data := transcriptData{
		Title:       summary.Title,
		Source:      source,
		GeneratedAt: time.Now(),
		Turns:       len(script.Dialogue),
	}
	for _, line := range script.Dialogue {
		data.Dialogue = append(data.Dialogue, transcriptLine{
			Host: pp.config.Settings.HostName(line.Speaker),
			Text: line.Text,
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing transcript template: %w", err)
	}

	return os.WriteFile(filename, buf.Bytes(), 0644)
}

// writeJSON persists one stage's metadata artifact
func writeJSON(dir, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// generateSlugFromTitle creates a filename slug from the paper title
func generateSlugFromTitle(title string) string {
	if title == "" {
		return "podcast"
	}

	// Convert to lowercase and replace spaces/special chars with hyphens
	slug := strings.ToLower(title)
	slug = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(slug, "-")
	slug = regexp.MustCompile(`-+`).ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	// Limit length to avoid filesystem issues
	if len(slug) > 50 {
		slug = slug[:50]
		slug = strings.Trim(slug, "-")
	}

	if slug == "" {
		return "podcast"
	}

	return slug
}
