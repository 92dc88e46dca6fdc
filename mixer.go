package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// PodcastMixer concatenates synthesized segments into the final podcast file
// using ffmpeg.
type PodcastMixer struct {
	ffmpegPath string
}

// NewPodcastMixer locates ffmpeg on the PATH
func NewPodcastMixer() (*PodcastMixer, error) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, &ConfigurationError{Field: "ffmpeg", Reason: "ffmpeg not found in PATH"}
	}
	return &PodcastMixer{ffmpegPath: path}, nil
}

// Mix concatenates the segments in order, normalizes loudness, and writes
// the result to outPath.
func (m *PodcastMixer) Mix(segments []string, outPath string) error {
	if len(segments) == 0 {
		return fmt.Errorf("no segments to mix")
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("creating podcast directory: %w", err)
	}

	args := buildMixArgs(segments, outPath)
	log.Printf("  → Mixing %d segments into %s", len(segments), outPath)

	cmd := exec.Command(m.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		log.Printf("[ERROR] ffmpeg failed: %s", stderr.String())
		return fmt.Errorf("ffmpeg mix error: %w", err)
	}

	return nil
}

// buildMixArgs builds the ffmpeg invocation: resample each segment with a
// short fade-in to soften speaker transitions, concatenate in order, then
// normalize loudness for podcast delivery.
func buildMixArgs(segments []string, outPath string) []string {
	args := []string{"-y"}
	for _, segment := range segments {
		args = append(args, "-i", segment)
	}

	var filterParts []string
	var concatInputs []string
	for i := range segments {
		label := fmt.Sprintf("s%d", i)
		filterParts = append(filterParts,
			fmt.Sprintf("[%d:a]aresample=44100,afade=t=in:d=0.05[%s]", i, label))
		concatInputs = append(concatInputs, "["+label+"]")
	}

	filterStr := strings.Join(filterParts, ";") + ";" +
		strings.Join(concatInputs, "") +
		fmt.Sprintf("concat=n=%d:v=0:a=1[cat];[cat]loudnorm=I=-16:TP=-1.5:LRA=11[out]", len(segments))

	args = append(args, "-filter_complex", filterStr, "-map", "[out]",
		"-c:a", "libmp3lame", "-q:a", "2", outPath)
	return args
}
