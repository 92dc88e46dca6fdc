package main

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

// AgentManager runs the analyst, scriptwriter and enhancer agents
type AgentManager struct {
	config *Config
	apiKey string
}

// NewAgentManager creates an AgentManager for the three pipeline agents
func NewAgentManager(apiKey string, config *Config) (*AgentManager, error) {
	if apiKey == "" {
		return nil, &ConfigurationError{Field: "api-key", Reason: "Anthropic API key is required"}
	}

	return &AgentManager{
		config: config,
		apiKey: apiKey,
	}, nil
}

// Summarize runs the analysis stage: paper content to structured summary
func (am *AgentManager) Summarize(doc *ContentResult) (*PaperSummary, error) {
	if doc == nil || (strings.TrimSpace(doc.Text) == "" && doc.FileID == "") {
		return nil, &InputError{Source: "paper", Reason: "document is empty"}
	}

	log.Printf("→ Summarizing paper...")

	systemPrompt := am.config.GetAnalystSystemPrompt()

	userPrompt := "Summarize the attached research paper."
	if doc.Text != "" {
		// Limit source content to configured token limit
		limited := am.limitContentTokens(doc.Text, am.config.Settings.Agents.Analyst.ContentMaxTokens)
		userPrompt = fmt.Sprintf("Research paper:\n%s", limited)
	}

	response, err := am.prompt(systemPrompt, userPrompt, am.config.GetSummarySchema(),
		am.config.Settings.Agents.Analyst, doc.FileID)
	if err != nil {
		return nil, &ExternalCallError{Stage: "analysis", Err: err}
	}

	var summary PaperSummary
	if err := json.Unmarshal([]byte(response), &summary); err != nil {
		return nil, &ExternalCallError{Stage: "analysis", Err: fmt.Errorf("parsing summary JSON: %w", err)}
	}

	log.Printf("✓ Summarized: %s", summary.Title)
	return &summary, nil
}

// WriteScript runs the script generation stage: summary to dialogue script
func (am *AgentManager) WriteScript(summary *PaperSummary) (*PodcastScript, error) {
	log.Printf("→ Writing podcast script...")

	systemPrompt, err := am.renderHostPrompt(am.config.GetScriptwriterSystemPrompt())
	if err != nil {
		return nil, fmt.Errorf("scriptwriter prompt: %w", err)
	}

	summaryJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling summary: %w", err)
	}
	userPrompt := fmt.Sprintf("Paper summary:\n%s", summaryJSON)

	response, err := am.prompt(systemPrompt, userPrompt, am.config.GetScriptSchema(),
		am.config.Settings.Agents.Scriptwriter, "")
	if err != nil {
		return nil, &ExternalCallError{Stage: "script generation", Err: err}
	}

	script, err := parseScript(response)
	if err != nil {
		return nil, &ExternalCallError{Stage: "script generation", Err: err}
	}

	log.Printf("✓ Script written: %d turns", len(script.Dialogue))
	return script, nil
}

// EnhanceScript runs the refinement stage. The enhancer may only edit line
// text; the speaker sequence must survive unchanged.
func (am *AgentManager) EnhanceScript(script *PodcastScript) (*PodcastScript, error) {
	log.Printf("→ Enhancing podcast script...")

	systemPrompt, err := am.renderHostPrompt(am.config.GetEnhancerSystemPrompt())
	if err != nil {
		return nil, fmt.Errorf("enhancer prompt: %w", err)
	}

	scriptJSON, err := json.MarshalIndent(script, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling script: %w", err)
	}
	userPrompt := fmt.Sprintf("Podcast script:\n%s", scriptJSON)

	response, err := am.prompt(systemPrompt, userPrompt, am.config.GetScriptSchema(),
		am.config.Settings.Agents.Enhancer, "")
	if err != nil {
		return nil, &ExternalCallError{Stage: "script refinement", Err: err}
	}

	enhanced, err := parseScript(response)
	if err != nil {
		return nil, &ExternalCallError{Stage: "script refinement", Err: err}
	}

	if !sameRoleSequence(script, enhanced) {
		return nil, &ExternalCallError{
			Stage: "script refinement",
			Err: fmt.Errorf("enhancer changed the speaker sequence (%d turns in, %d turns out)",
				len(script.Dialogue), len(enhanced.Dialogue)),
		}
	}

	log.Printf("✓ Script enhanced: %d turns", len(enhanced.Dialogue))
	return enhanced, nil
}

// prompt issues one agent call with structured output. A non-empty fileID
// attaches an uploaded PDF to the request.
func (am *AgentManager) prompt(systemPrompt, userPrompt, schema string, settings AgentSettings, fileID string) (string, error) {
	var files []types.File
	if fileID != "" {
		files = append(files, types.File{ID: fileID})
	}

	requestSettings := types.RequestSettings{
		Model:       settings.Model,
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	}

	response, err := anthropic.PromptWithSettings(systemPrompt, userPrompt, schema, am.apiKey, requestSettings, files...)
	if err != nil {
		return "", err
	}

	if len(response.Content) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	return response.Content[0].Text, nil
}

// renderHostPrompt substitutes host display names into a prompt template
func (am *AgentManager) renderHostPrompt(promptTemplate string) (string, error) {
	if !strings.Contains(promptTemplate, "{{.Author}}") {
		return "", fmt.Errorf("prompt template must contain {{.Author}} variable")
	}
	if !strings.Contains(promptTemplate, "{{.Reviewer}}") {
		return "", fmt.Errorf("prompt template must contain {{.Reviewer}} variable")
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{.Author}}", am.config.Settings.HostName(RoleAuthor))
	prompt = strings.ReplaceAll(prompt, "{{.Reviewer}}", am.config.Settings.HostName(RoleReviewer))
	return prompt, nil
}

// limitContentTokens limits content to approximately N tokens (using 4 chars ≈ 1 token)
func (am *AgentManager) limitContentTokens(content string, maxTokens int) string {
	maxChars := maxTokens * 4 // Rough approximation: 4 chars ≈ 1 token
	if len(content) <= maxChars {
		return content
	}
	return content[:maxChars] + "..."
}

// parseScript parses and normalizes an agent's structured script response
func parseScript(jsonText string) (*PodcastScript, error) {
	var script PodcastScript
	if err := json.Unmarshal([]byte(jsonText), &script); err != nil {
		return nil, fmt.Errorf("parsing script JSON: %w", err)
	}

	if len(script.Dialogue) == 0 {
		return nil, fmt.Errorf("agent returned an empty script")
	}

	for i := range script.Dialogue {
		line := &script.Dialogue[i]
		line.Speaker = strings.ToLower(strings.TrimSpace(line.Speaker))
		if line.Speaker != RoleAuthor && line.Speaker != RoleReviewer {
			return nil, fmt.Errorf("turn %d has unknown speaker %q", i, line.Speaker)
		}
		if strings.TrimSpace(line.Text) == "" {
			return nil, fmt.Errorf("turn %d has empty text", i)
		}
	}

	return &script, nil
}

// sameRoleSequence reports whether two scripts have identical turn counts
// and per-turn speakers.
func sameRoleSequence(a, b *PodcastScript) bool {
	if len(a.Dialogue) != len(b.Dialogue) {
		return false
	}
	for i := range a.Dialogue {
		if a.Dialogue[i].Speaker != b.Dialogue[i].Speaker {
			return false
		}
	}
	return true
}
