package main

import "time"

// Speaker roles used throughout the pipeline. The script agents are
// instructed to emit exactly these identifiers; display names for the
// hosts come from settings.
const (
	RoleAuthor   = "author"
	RoleReviewer = "reviewer"
)

// PaperSummary is the structured output of the analysis stage.
type PaperSummary struct {
	Title           string   `json:"title"`
	MainFindings    []string `json:"main_findings"`
	Methodology     string   `json:"methodology"`
	KeyImplications []string `json:"key_implications"`
	Limitations     []string `json:"limitations"`
	FutureWork      []string `json:"future_work"`
}

// DialogueLine is one turn of the podcast script.
type DialogueLine struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// PodcastScript is an ordered dialogue. Order is playback order.
type PodcastScript struct {
	Dialogue []DialogueLine `json:"dialogue"`
}

// Roles returns the speaker sequence of the script.
func (s *PodcastScript) Roles() []string {
	roles := make([]string, len(s.Dialogue))
	for i, line := range s.Dialogue {
		roles[i] = line.Speaker
	}
	return roles
}

// ProcessingResult tracks the outcome of one pipeline run.
type ProcessingResult struct {
	Source       string
	PodcastPath  string
	ScriptPath   string
	Turns        int
	GeneratedAt  time.Time
	SegmentFiles []string
}
