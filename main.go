package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	apiKey                 string
	ttsAPIKey              string
	settingsPath           string
	authorVoiceID          string
	reviewerVoiceID        string
	analystPromptPath      string
	scriptwriterPromptPath string
	enhancerPromptPath     string
	templatePath           string
	keepSegments           bool
	debugMode              bool
)

var rootCmd = &cobra.Command{
	Use:   "reviewcast [paper]",
	Short: "Turn a research paper into an author-vs-reviewer podcast",
	Long: `reviewcast reads a research paper (file path or URL), generates an
author-vs-reviewer dialogue with AI agents, synthesizes each line with a
role-specific voice, and mixes the result into one podcast audio file.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Load .env if present
		godotenv.Load()

		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			log.Fatal("API key required: use --api-key flag or ANTHROPIC_API_KEY environment variable")
		}

		if ttsAPIKey == "" {
			ttsAPIKey = os.Getenv("ELEVENLABS_API_KEY")
		}
		if ttsAPIKey == "" {
			log.Fatal("TTS API key required: use --tts-api-key flag or ELEVENLABS_API_KEY environment variable")
		}

		if debugMode {
			SetDebugMode(true)
		}

		// Build config overrides
		overrides := &ConfigOverrides{}
		if analystPromptPath != "" {
			overrides.AnalystPromptPath = &analystPromptPath
		}
		if scriptwriterPromptPath != "" {
			overrides.ScriptwriterPromptPath = &scriptwriterPromptPath
		}
		if enhancerPromptPath != "" {
			overrides.EnhancerPromptPath = &enhancerPromptPath
		}
		if templatePath != "" {
			overrides.TemplatePath = &templatePath
		}
		if settingsPath != "" {
			overrides.SettingsPath = &settingsPath
		}

		config, err := NewConfig(overrides)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		applyVoiceOverrides(config.Settings)

		processor, err := NewPodcastProcessor(config, apiKey, ttsAPIKey)
		if err != nil {
			log.Fatalf("Failed to create processor: %v", err)
		}
		processor.SetKeepSegments(keepSegments)

		// Resolve the paper source
		var source string
		if len(args) > 0 {
			source = args[0]
		} else {
			source, err = FindDefaultPaper(config.Settings.KnowledgeDirectory)
			if err != nil {
				log.Fatalf("No paper given: %v", err)
			}
		}

		result, err := processor.Run(source)
		if err != nil {
			log.Fatalf("Processing failed: %v", err)
		}

		log.Printf("Done: %d turns, podcast at %s, transcript at %s",
			result.Turns, result.PodcastPath, result.ScriptPath)
	},
}

// applyVoiceOverrides merges voice IDs from flags and environment into the
// settings (flag wins over env, env wins over settings file).
func applyVoiceOverrides(settings *Settings) {
	if settings.TTS.Voices == nil {
		settings.TTS.Voices = make(map[string]VoiceSpec)
	}

	setVoiceID := func(role, flagValue, envVar string) {
		id := flagValue
		if id == "" {
			id = os.Getenv(envVar)
		}
		if id == "" {
			return
		}
		voice := settings.TTS.Voices[role]
		voice.VoiceID = id
		settings.TTS.Voices[role] = voice
	}

	setVoiceID(RoleAuthor, authorVoiceID, "AUTHOR_VOICE_ID")
	setVoiceID(RoleReviewer, reviewerVoiceID, "REVIEWER_VOICE_ID")
}

func init() {
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "Anthropic API key")
	rootCmd.Flags().StringVar(&ttsAPIKey, "tts-api-key", "", "Voice synthesis API key")
	rootCmd.Flags().StringVar(&settingsPath, "settings", "", "Path to custom settings file")
	rootCmd.Flags().StringVar(&authorVoiceID, "author-voice", "", "Voice ID for the author host")
	rootCmd.Flags().StringVar(&reviewerVoiceID, "reviewer-voice", "", "Voice ID for the reviewer host")
	rootCmd.Flags().StringVar(&analystPromptPath, "analyst-prompt", "", "Path to custom analyst prompt file")
	rootCmd.Flags().StringVar(&scriptwriterPromptPath, "scriptwriter-prompt", "", "Path to custom scriptwriter prompt file")
	rootCmd.Flags().StringVar(&enhancerPromptPath, "enhancer-prompt", "", "Path to custom enhancer prompt file")
	rootCmd.Flags().StringVar(&templatePath, "template", "", "Path to custom transcript template file")
	rootCmd.Flags().BoolVar(&keepSegments, "keep-segments", false, "Keep per-turn audio segments after mixing")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
