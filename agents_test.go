package main

import (
	"errors"
	"strings"
	"testing"
)

func TestNewAgentManager(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		wantErr bool
	}{
		{
			name:    "valid api key",
			apiKey:  "test-api-key-123",
			wantErr: false,
		},
		{
			name:    "empty api key",
			apiKey:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{
				Settings: &Settings{},
			}

			am, err := NewAgentManager(tt.apiKey, config)

			if (err != nil) != tt.wantErr {
				t.Errorf("NewAgentManager() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				var confErr *ConfigurationError
				if !errors.As(err, &confErr) {
					t.Errorf("NewAgentManager() error type = %T, want *ConfigurationError", err)
				}
				return
			}

			if am == nil {
				t.Fatal("NewAgentManager() returned nil AgentManager")
			}
			if am.config != config {
				t.Error("NewAgentManager() config not set correctly")
			}
			if am.apiKey != tt.apiKey {
				t.Error("NewAgentManager() apiKey not set correctly")
			}
		})
	}
}

func TestSummarizeEmptyDocument(t *testing.T) {
	am := &AgentManager{
		config: &Config{Settings: &Settings{}},
		apiKey: "test-key",
	}

	tests := []struct {
		name string
		doc  *ContentResult
	}{
		{"nil document", nil},
		{"empty text", &ContentResult{Text: ""}},
		{"whitespace only", &ContentResult{Text: "   \n\t "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := am.Summarize(tt.doc)
			if err == nil {
				t.Fatal("Summarize() should fail on empty document")
			}

			var inputErr *InputError
			if !errors.As(err, &inputErr) {
				t.Errorf("Summarize() error type = %T, want *InputError", err)
			}
		})
	}
}

func TestParseScript(t *testing.T) {
	tests := []struct {
		name     string
		jsonText string
		wantErr  bool
		errPart  string
		turns    int
	}{
		{
			name:     "valid two-turn script",
			jsonText: `{"dialogue":[{"speaker":"author","text":"Thanks for reviewing my work."},{"speaker":"reviewer","text":"The methodology needs clarification."}]}`,
			turns:    2,
		},
		{
			name:     "speakers are normalized",
			jsonText: `{"dialogue":[{"speaker":" Author ","text":"Hello."},{"speaker":"REVIEWER","text":"Hi."}]}`,
			turns:    2,
		},
		{
			name:     "empty dialogue",
			jsonText: `{"dialogue":[]}`,
			wantErr:  true,
			errPart:  "empty script",
		},
		{
			name:     "unknown speaker",
			jsonText: `{"dialogue":[{"speaker":"narrator","text":"Once upon a time."}]}`,
			wantErr:  true,
			errPart:  "unknown speaker",
		},
		{
			name:     "empty line text",
			jsonText: `{"dialogue":[{"speaker":"author","text":"  "}]}`,
			wantErr:  true,
			errPart:  "empty text",
		},
		{
			name:     "malformed JSON",
			jsonText: `not json`,
			wantErr:  true,
			errPart:  "parsing script JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, err := parseScript(tt.jsonText)

			if (err != nil) != tt.wantErr {
				t.Fatalf("parseScript() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				if !strings.Contains(err.Error(), tt.errPart) {
					t.Errorf("parseScript() error = %q, want substring %q", err.Error(), tt.errPart)
				}
				return
			}

			if len(script.Dialogue) != tt.turns {
				t.Errorf("parseScript() turns = %d, want %d", len(script.Dialogue), tt.turns)
			}
			for i, line := range script.Dialogue {
				if line.Speaker != RoleAuthor && line.Speaker != RoleReviewer {
					t.Errorf("turn %d speaker = %q, want author or reviewer", i, line.Speaker)
				}
			}
		})
	}
}

func TestSameRoleSequence(t *testing.T) {
	base := &PodcastScript{Dialogue: []DialogueLine{
		{Speaker: RoleAuthor, Text: "In our study, we found..."},
		{Speaker: RoleReviewer, Text: "Have you considered..."},
	}}

	tests := []struct {
		name     string
		other    *PodcastScript
		expected bool
	}{
		{
			name: "same roles, different text",
			other: &PodcastScript{Dialogue: []DialogueLine{
				{Speaker: RoleAuthor, Text: "So in our study we found..."},
				{Speaker: RoleReviewer, Text: "Interesting. Have you considered..."},
			}},
			expected: true,
		},
		{
			name: "swapped roles",
			other: &PodcastScript{Dialogue: []DialogueLine{
				{Speaker: RoleReviewer, Text: "a"},
				{Speaker: RoleAuthor, Text: "b"},
			}},
			expected: false,
		},
		{
			name: "extra turn",
			other: &PodcastScript{Dialogue: []DialogueLine{
				{Speaker: RoleAuthor, Text: "a"},
				{Speaker: RoleReviewer, Text: "b"},
				{Speaker: RoleAuthor, Text: "c"},
			}},
			expected: false,
		},
		{
			name:     "empty script",
			other:    &PodcastScript{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameRoleSequence(base, tt.other); got != tt.expected {
				t.Errorf("sameRoleSequence() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRenderHostPrompt(t *testing.T) {
	settings := &Settings{
		Hosts: map[string]string{
			RoleAuthor:   "Julia",
			RoleReviewer: "Guido",
		},
	}
	am := &AgentManager{
		config: &Config{Settings: settings},
		apiKey: "test-key",
	}

	tests := []struct {
		name     string
		template string
		wantErr  bool
		contains []string
	}{
		{
			name:     "both variables substituted",
			template: "Write a dialogue between {{.Author}} and {{.Reviewer}}.",
			contains: []string{"Julia", "Guido"},
		},
		{
			name:     "missing author variable",
			template: "Only {{.Reviewer}} here.",
			wantErr:  true,
		},
		{
			name:     "missing reviewer variable",
			template: "Only {{.Author}} here.",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := am.renderHostPrompt(tt.template)

			if (err != nil) != tt.wantErr {
				t.Fatalf("renderHostPrompt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			for _, want := range tt.contains {
				if !strings.Contains(prompt, want) {
					t.Errorf("renderHostPrompt() = %q, want substring %q", prompt, want)
				}
			}
			if strings.Contains(prompt, "{{.Author}}") || strings.Contains(prompt, "{{.Reviewer}}") {
				t.Error("renderHostPrompt() left template variables unsubstituted")
			}
		})
	}
}

func TestLimitContentTokens(t *testing.T) {
	am := &AgentManager{config: &Config{Settings: &Settings{}}}

	short := "short content"
	if got := am.limitContentTokens(short, 100); got != short {
		t.Errorf("limitContentTokens() modified short content: %q", got)
	}

	long := strings.Repeat("a", 1000)
	got := am.limitContentTokens(long, 10)
	// 10 tokens ~= 40 chars, plus the ellipsis
	if len(got) != 43 {
		t.Errorf("limitContentTokens() length = %d, want 43", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("limitContentTokens() should append ellipsis")
	}
}
