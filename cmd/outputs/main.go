package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

var runDirPattern = regexp.MustCompile(`^\d{8}_\d{6}$`)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: outputs <list|prune> <outputs-directory> [keep-n]")
	}

	command := os.Args[1]
	outputsDir := os.Args[2]

	switch command {
	case "list":
		if err := listRuns(outputsDir); err != nil {
			log.Fatal(err)
		}
	case "prune":
		if len(os.Args) < 4 {
			log.Fatal("Usage: outputs prune <outputs-directory> <keep-n>")
		}
		keep, err := strconv.Atoi(os.Args[3])
		if err != nil || keep < 0 {
			log.Fatalf("Invalid keep count %q", os.Args[3])
		}
		if err := pruneRuns(outputsDir, keep); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("Unknown command %q", command)
	}
}

// findRuns returns timestamped run directories, newest first
func findRuns(outputsDir string) ([]string, error) {
	entries, err := os.ReadDir(outputsDir)
	if err != nil {
		return nil, fmt.Errorf("reading outputs directory %s: %w", outputsDir, err)
	}

	var runs []string
	for _, entry := range entries {
		if entry.IsDir() && runDirPattern.MatchString(entry.Name()) {
			runs = append(runs, entry.Name())
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(runs)))
	return runs, nil
}

func listRuns(outputsDir string) error {
	runs, err := findRuns(outputsDir)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	for _, run := range runs {
		podcasts, _ := filepath.Glob(filepath.Join(outputsDir, run, "podcast", "*.mp3"))
		if len(podcasts) == 0 {
			fmt.Printf("%s  (no podcast)\n", run)
			continue
		}
		for _, podcast := range podcasts {
			info, err := os.Stat(podcast)
			if err != nil {
				continue
			}
			fmt.Printf("%s  %s  %.1f MB\n", run, filepath.Base(podcast), float64(info.Size())/(1024*1024))
		}
	}

	return nil
}

func pruneRuns(outputsDir string, keep int) error {
	runs, err := findRuns(outputsDir)
	if err != nil {
		return err
	}

	if len(runs) <= keep {
		log.Printf("Nothing to prune: %d runs, keeping %d", len(runs), keep)
		return nil
	}

	for _, run := range runs[keep:] {
		path := filepath.Join(outputsDir, run)
		if err := os.RemoveAll(path); err != nil {
			log.Printf("Error removing %s: %v", path, err)
			continue
		}
		log.Printf("Removed %s", path)
	}

	return nil
}
