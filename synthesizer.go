package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultTTSBaseURL = "https://api.elevenlabs.io"
	defaultTTSModelID = "eleven_multilingual_v2"
	synthesisRetries  = 5
)

// VoiceSpec selects and tunes one synthesized voice.
type VoiceSpec struct {
	VoiceID         string  `yaml:"voice_id"`
	Stability       float64 `yaml:"stability"`
	SimilarityBoost float64 `yaml:"similarity_boost"`
	Style           float64 `yaml:"style"`
	SpeakerBoost    bool    `yaml:"speaker_boost"`
}

type ttsRequest struct {
	Text          string           `json:"text"`
	ModelID       string           `json:"model_id"`
	VoiceSettings ttsVoiceSettings `json:"voice_settings"`
}

type ttsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// Synthesizer renders dialogue lines to speech via an ElevenLabs-compatible API
type Synthesizer struct {
	apiKey     string
	baseURL    string
	modelID    string
	voices     map[string]VoiceSpec
	client     *http.Client
	retryDelay time.Duration
}

// NewSynthesizer creates a Synthesizer from TTS settings
func NewSynthesizer(apiKey string, settings *TTSSettings) (*Synthesizer, error) {
	if apiKey == "" {
		return nil, &ConfigurationError{Field: "tts-api-key", Reason: "voice synthesis API key is required"}
	}

	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = defaultTTSBaseURL
	}
	modelID := settings.ModelID
	if modelID == "" {
		modelID = defaultTTSModelID
	}

	return &Synthesizer{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		modelID:    modelID,
		voices:     settings.Voices,
		client:     &http.Client{Timeout: 120 * time.Second},
		retryDelay: time.Second,
	}, nil
}

// Voice resolves the voice for a speaker role. A role configured without a
// voice_id counts as unmapped.
func (s *Synthesizer) Voice(speaker string) (VoiceSpec, bool) {
	voice, ok := s.voices[speaker]
	if !ok || voice.VoiceID == "" {
		return VoiceSpec{}, false
	}
	return voice, true
}

// SynthesizeScript renders every turn into segmentsDir, one file per turn,
// in script order. On any failure the segments written so far are removed.
func (s *Synthesizer) SynthesizeScript(script *PodcastScript, segmentsDir string) ([]string, error) {
	// Every speaker must resolve to a voice before the first audio call
	for i, line := range script.Dialogue {
		if _, ok := s.Voice(line.Speaker); !ok {
			return nil, &SynthesisError{Turn: i, Speaker: line.Speaker, Err: fmt.Errorf("no voice configured for role")}
		}
	}

	if err := os.MkdirAll(segmentsDir, 0755); err != nil {
		return nil, fmt.Errorf("creating segments directory: %w", err)
	}

	var segments []string
	for i, line := range script.Dialogue {
		voice, _ := s.Voice(line.Speaker)
		log.Printf("  → Synthesizing turn %d/%d (%s)...", i+1, len(script.Dialogue), line.Speaker)

		audio, err := s.synthesizeWithRetries(line.Text, voice)
		if err != nil {
			removeFiles(segments)
			return nil, &SynthesisError{Turn: i, Speaker: line.Speaker, Err: err}
		}

		segmentPath := filepath.Join(segmentsDir, fmt.Sprintf("segment_%03d_%s.mp3", i, line.Speaker))
		if err := os.WriteFile(segmentPath, audio, 0644); err != nil {
			removeFiles(segments)
			return nil, &SynthesisError{Turn: i, Speaker: line.Speaker, Err: fmt.Errorf("writing segment: %w", err)}
		}
		segments = append(segments, segmentPath)
	}

	return segments, nil
}

// synthesizeWithRetries retries rate-limited calls with exponential backoff
func (s *Synthesizer) synthesizeWithRetries(text string, voice VoiceSpec) ([]byte, error) {
	var lastErr error
	for i := 0; i < synthesisRetries; i++ {
		audio, err := s.Synthesize(text, voice)
		if err == nil {
			return audio, nil
		}
		lastErr = err

		httpErr, ok := err.(*HTTPError)
		if !ok || httpErr.StatusCode != http.StatusTooManyRequests {
			return nil, err
		}

		if i < synthesisRetries-1 {
			backoff := time.Duration(1<<uint(i)) * s.retryDelay
			time.Sleep(backoff)
		}
	}
	return nil, fmt.Errorf("exceeded max retries after %d attempts: %w", synthesisRetries, lastErr)
}

// Synthesize renders one line of text with the given voice and returns MP3 bytes
func (s *Synthesizer) Synthesize(text string, voice VoiceSpec) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty text")
	}

	payload := ttsRequest{
		Text:    text,
		ModelID: s.modelID,
		VoiceSettings: ttsVoiceSettings{
			Stability:       voice.Stability,
			SimilarityBoost: voice.SimilarityBoost,
			Style:           voice.Style,
			UseSpeakerBoost: voice.SpeakerBoost,
		},
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling TTS request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", s.baseURL, voice.VoiceID)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		debugLog("TTS error response: %s", string(body))
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	return io.ReadAll(resp.Body)
}

func removeFiles(paths []string) {
	for _, path := range paths {
		os.Remove(path)
	}
}
