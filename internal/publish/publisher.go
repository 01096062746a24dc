package publish

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dealscout/internal/deal"
	"dealscout/internal/dedup"
	"dealscout/logger"
	"dealscout/pkg/errors"
)

// Stable artifact filenames; downstream consumers poll these URLs.
const (
	CSVFile   = "deals.csv"
	JSONFile  = "deals.json"
	IndexFile = "index.html"
	SeenFile  = "seen.json"
)

const stagingSuffix = ".staging"

// Snapshot is the final ordered deal list for one run plus run metadata
type Snapshot struct {
	GeneratedAt time.Time
	Outcome     string
	Deals       []deal.Deal
}

// Publisher serializes a snapshot into the artifact set and writes it to
// the output directory. All artifacts are staged first and promoted only
// once every write succeeded, so readers polling the stable URLs never
// observe a half-written file.
type Publisher struct {
	OutputDir string

	// writeFile and rename are swapped out in tests to force failures
	writeFile func(name string, data []byte, perm os.FileMode) error
	rename    func(oldpath, newpath string) error
}

// NewPublisher creates a new publisher for the output directory
func NewPublisher(outputDir string) *Publisher {
	return &Publisher{
		OutputDir: outputDir,
		writeFile: os.WriteFile,
		rename:    os.Rename,
	}
}

// Publish writes the artifact set and the updated seen-set atomically.
func (p *Publisher) Publish(snap Snapshot, seen *dedup.SeenSet) error {
	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		return errors.NewPublish(p.OutputDir, "failed to create output directory", err)
	}

	csvData, err := renderCSV(snap.Deals)
	if err != nil {
		return errors.NewPublish(CSVFile, "failed to render tabular artifact", err)
	}
	jsonData, err := renderJSON(snap)
	if err != nil {
		return errors.NewPublish(JSONFile, "failed to render snapshot artifact", err)
	}
	htmlData, err := renderHTML(snap)
	if err != nil {
		return errors.NewPublish(IndexFile, "failed to render listing artifact", err)
	}
	seenData, err := seen.Encode()
	if err != nil {
		return errors.NewPublish(SeenFile, "failed to encode seen-set", err)
	}

	artifacts := []struct {
		name string
		data []byte
	}{
		{CSVFile, csvData},
		{JSONFile, jsonData},
		{IndexFile, htmlData},
		{SeenFile, seenData},
	}

	// Stage everything before promoting anything
	staged := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		stagingPath := filepath.Join(p.OutputDir, a.name+stagingSuffix)
		if err := p.writeFile(stagingPath, a.data, 0o644); err != nil {
			p.cleanupStaging(staged)
			return errors.NewPublish(a.name, "failed to write staging file", err)
		}
		staged = append(staged, stagingPath)
	}

	for _, a := range artifacts {
		stagingPath := filepath.Join(p.OutputDir, a.name+stagingSuffix)
		finalPath := filepath.Join(p.OutputDir, a.name)
		if err := p.rename(stagingPath, finalPath); err != nil {
			p.cleanupStaging(staged)
			return errors.NewPublish(a.name, "failed to promote staging file", err)
		}
	}

	logger.Info("published %d deals to %s", len(snap.Deals), p.OutputDir)
	return nil
}

// cleanupStaging removes leftover staging files after a failed publish.
// Promotion already completed for some artifacts is left alone; the next
// successful run replaces the whole set anyway.
func (p *Publisher) cleanupStaging(staged []string) {
	for _, path := range staged {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove staging file %s: %v", path, err)
		}
	}
}

// SeenPath returns the published location of the seen-set file
func (p *Publisher) SeenPath() string {
	return filepath.Join(p.OutputDir, SeenFile)
}

// String implements fmt.Stringer for logging
func (p *Publisher) String() string {
	return fmt.Sprintf("publisher(%s)", p.OutputDir)
}
