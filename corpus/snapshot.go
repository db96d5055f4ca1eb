package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/poiesic/corpora/core"
)

// NewSnapshot assembles a corpus snapshot from sorted paragraph records.
func NewSnapshot(records []*core.ParagraphRecord) *core.Snapshot {
	seen := make(map[string]bool)
	var sources []string
	for _, r := range records {
		if !seen[r.SourceName] {
			seen[r.SourceName] = true
			sources = append(sources, r.SourceName)
		}
	}
	sort.Strings(sources)

	return &core.Snapshot{
		Paragraphs: records,
		Metadata: core.SnapshotMetadata{
			TotalParagraphs: len(records),
			TotalSources:    len(sources),
			SourceNames:     sources,
		},
	}
}

// WriteSnapshot writes the corpus snapshot as indented JSON. Record order is
// preserved, so identical inputs produce byte-identical files.
func WriteSnapshot(path string, snapshot *core.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads a corpus snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (*core.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snapshot core.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snapshot, nil
}
