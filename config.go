package main

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".reviewcast/"

const minContentMaxTokens = 2000

// Embedded configuration files
//
//go:embed config/analyst-system-prompt.md
var analystSystemPrompt string

//go:embed config/scriptwriter-system-prompt.md
var scriptwriterSystemPrompt string

//go:embed config/enhancer-system-prompt.md
var enhancerSystemPrompt string

//go:embed config/summary-output-schema.json
var summarySchema string

//go:embed config/script-output-schema.json
var scriptSchema string

//go:embed config/podcast-transcript-template.md
var defaultTranscriptTemplate string

//go:embed config/settings.yaml
var defaultSettings string

// ConfigOverrides holds file path overrides for embedded configurations
type ConfigOverrides struct {
	AnalystPromptPath      *string
	ScriptwriterPromptPath *string
	EnhancerPromptPath     *string
	TemplatePath           *string
	SettingsPath           *string
}

// AgentSettings configures one LLM agent call.
type AgentSettings struct {
	Model            string  `yaml:"model"`
	MaxTokens        int     `yaml:"max_tokens"`
	Temperature      float64 `yaml:"temperature"`
	ContentMaxTokens int     `yaml:"content_max_tokens,omitempty"`
}

// TTSSettings configures the voice synthesis service.
type TTSSettings struct {
	BaseURL string               `yaml:"base_url"`
	ModelID string               `yaml:"model_id"`
	Voices  map[string]VoiceSpec `yaml:"voices"`
}

// Settings represents the YAML configuration structure
type Settings struct {
	OutputDirectory    string            `yaml:"output_directory"`
	KnowledgeDirectory string            `yaml:"knowledge_directory"`
	Hosts              map[string]string `yaml:"hosts"`
	Agents             struct {
		Analyst      AgentSettings `yaml:"analyst"`
		Scriptwriter AgentSettings `yaml:"scriptwriter"`
		Enhancer     AgentSettings `yaml:"enhancer"`
	} `yaml:"agents"`
	TTS TTSSettings `yaml:"tts"`
}

// HostName returns the display name configured for a speaker role,
// falling back to the role identifier itself.
func (s *Settings) HostName(role string) string {
	if name, ok := s.Hosts[role]; ok && name != "" {
		return name
	}
	return role
}

// Config holds settings and overrides
type Config struct {
	Settings  *Settings
	Overrides *ConfigOverrides
}

// NewConfig loads settings (scaffolding defaults on first run) and attaches overrides
func NewConfig(overrides *ConfigOverrides) (*Config, error) {
	if err := ensureConfigExists(); err != nil {
		return nil, fmt.Errorf("ensuring config files exist: %w", err)
	}

	var settings *Settings
	var err error
	if overrides != nil && overrides.SettingsPath != nil {
		// Explicit settings file must exist
		settings, err = loadSettingsRequired(*overrides.SettingsPath)
		if err != nil {
			return nil, fmt.Errorf("loading settings from %s: %w", *overrides.SettingsPath, err)
		}
	} else {
		settings, err = loadSettings(filepath.Join(defaultConfigDir, "settings.yaml"))
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
	}

	return &Config{
		Settings:  settings,
		Overrides: overrides,
	}, nil
}

// GetAnalystSystemPrompt returns the analyst system prompt (from override file or embedded)
func (c *Config) GetAnalystSystemPrompt() string {
	if c.Overrides != nil && c.Overrides.AnalystPromptPath != nil {
		return mustReadOverride(*c.Overrides.AnalystPromptPath)
	}
	return analystSystemPrompt
}

// GetScriptwriterSystemPrompt returns the scriptwriter system prompt (from override file or embedded)
func (c *Config) GetScriptwriterSystemPrompt() string {
	if c.Overrides != nil && c.Overrides.ScriptwriterPromptPath != nil {
		return mustReadOverride(*c.Overrides.ScriptwriterPromptPath)
	}
	return scriptwriterSystemPrompt
}

// GetEnhancerSystemPrompt returns the enhancer system prompt (from override file or embedded)
func (c *Config) GetEnhancerSystemPrompt() string {
	if c.Overrides != nil && c.Overrides.EnhancerPromptPath != nil {
		return mustReadOverride(*c.Overrides.EnhancerPromptPath)
	}
	return enhancerSystemPrompt
}

// GetSummarySchema returns the JSON schema for the analysis stage output
func (c *Config) GetSummarySchema() string {
	return summarySchema
}

// GetScriptSchema returns the JSON schema for script generation and refinement output
func (c *Config) GetScriptSchema() string {
	return scriptSchema
}

// GetTranscriptTemplate returns the transcript template (from override file or embedded)
func (c *Config) GetTranscriptTemplate() string {
	if c.Overrides != nil && c.Overrides.TemplatePath != nil {
		return mustReadOverride(*c.Overrides.TemplatePath)
	}
	return defaultTranscriptTemplate
}

// mustReadOverride reads an explicitly requested override file. An explicit
// override that doesn't exist is a hard error.
func mustReadOverride(path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Critical error: override file missing: %s - %v", path, err)
	}
	return string(content)
}

// loadSettings loads settings from YAML file with fallback to embedded defaults
func loadSettings(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		data = []byte(defaultSettings)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	applySettingsFloors(&settings)
	return &settings, nil
}

// loadSettingsRequired loads settings from YAML file, failing if the file doesn't exist
func loadSettingsRequired(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	applySettingsFloors(&settings)
	return &settings, nil
}

func applySettingsFloors(settings *Settings) {
	if settings.Agents.Analyst.ContentMaxTokens < minContentMaxTokens {
		log.Printf("Warning: analyst.content_max_tokens is %d, defaulting to %d (minimum)",
			settings.Agents.Analyst.ContentMaxTokens, minContentMaxTokens)
		settings.Agents.Analyst.ContentMaxTokens = minContentMaxTokens
	}
}

// ensureConfigExists creates the config directory and writes settings.yaml if needed
func ensureConfigExists() error {
	if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write settings.yaml - this should be customized by users
	settingsFile := filepath.Join(defaultConfigDir, "settings.yaml")
	if _, err := os.Stat(settingsFile); os.IsNotExist(err) {
		if err := os.WriteFile(settingsFile, []byte(defaultSettings), 0644); err != nil {
			return fmt.Errorf("writing settings.yaml: %w", err)
		}
	}

	return nil
}
