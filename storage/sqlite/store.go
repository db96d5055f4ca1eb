// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package sqlite implements storage.ParagraphStore on a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/storage"
)

// DefaultSearchLimit caps SearchText results when the caller passes limit <= 0.
const DefaultSearchLimit = 20

const recordColumns = `id, source_name, source_file, paragraph_index, opening_sentence, full_text, word_count, is_valid, difficulty_score`

type store struct {
	db *sql.DB
}

// Open opens the paragraph store at dbPath, creating the database file and
// schema as needed. The parent directory is created if it does not exist.
func Open(dbPath string) (storage.ParagraphStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// WAL mode for concurrent readers during indexing runs.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS paragraphs (
			id TEXT PRIMARY KEY,
			source_name TEXT NOT NULL,
			source_file TEXT NOT NULL,
			paragraph_index INTEGER NOT NULL,
			opening_sentence TEXT NOT NULL,
			full_text TEXT NOT NULL,
			word_count INTEGER NOT NULL,
			is_valid INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating paragraphs table: %w", err)
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_paragraphs_source ON paragraphs(source_name)`); err != nil {
		return fmt.Errorf("creating source index: %w", err)
	}
	// Database files written before difficulty indexing existed lack the
	// score column.
	return s.ensureDifficultyColumn()
}

func (s *store) ensureDifficultyColumn() error {
	_, err := s.db.Exec(`ALTER TABLE paragraphs ADD COLUMN difficulty_score REAL`)
	if err != nil && !strings.Contains(err.Error(), "duplicate column name") {
		return fmt.Errorf("adding difficulty_score column: %w", err)
	}
	return nil
}

func (s *store) EnsureDifficultySchema(ctx context.Context) error {
	return s.ensureDifficultyColumn()
}

func (s *store) UpsertAll(ctx context.Context, records []*core.ParagraphRecord) error {
	for _, record := range records {
		if err := core.ValidateParagraphRecord(record); err != nil {
			return fmt.Errorf("record %q: %w", record.Id, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO paragraphs (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_name = excluded.source_name,
			source_file = excluded.source_file,
			paragraph_index = excluded.paragraph_index,
			opening_sentence = excluded.opening_sentence,
			full_text = excluded.full_text,
			word_count = excluded.word_count,
			is_valid = excluded.is_valid,
			difficulty_score = excluded.difficulty_score
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		_, err := stmt.ExecContext(ctx,
			record.Id,
			record.SourceName,
			record.SourceFile,
			record.ParagraphIndex,
			record.OpeningSentence,
			record.Text,
			record.WordCount,
			record.Valid,
			record.Difficulty,
		)
		if err != nil {
			return fmt.Errorf("upserting record %q: %w", record.Id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}
	return nil
}

func (s *store) GetByID(ctx context.Context, id string) (*core.ParagraphRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM paragraphs WHERE id = ?`, id)
	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("paragraph %q: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying paragraph %q: %w", id, err)
	}
	return record, nil
}

func (s *store) GetBySource(ctx context.Context, sourceName string) ([]*core.ParagraphRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM paragraphs WHERE source_name = ? ORDER BY paragraph_index`,
		sourceName)
	if err != nil {
		return nil, fmt.Errorf("querying source %q: %w", sourceName, err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (s *store) GetRandom(ctx context.Context, q storage.RandomQuery) (*core.ParagraphRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+` FROM paragraphs
		WHERE is_valid = 1
		  AND word_count BETWEEN ? AND ?
		  AND COALESCE(difficulty_score, 0.5) BETWEEN ? AND ?
		ORDER BY RANDOM() LIMIT 1
	`, q.MinWords, q.MaxWords, q.MinDifficulty, q.MaxDifficulty)
	record, err := scanRecord(row)
	if err == nil {
		return record, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("querying random paragraph: %w", err)
	}

	// Nothing inside the bounds: fall back to any valid paragraph rather
	// than failing the draw.
	row = s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM paragraphs WHERE is_valid = 1 ORDER BY RANDOM() LIMIT 1`)
	record, err = scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no valid paragraphs: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying random paragraph: %w", err)
	}
	return record, nil
}

func (s *store) SearchText(ctx context.Context, substr string, limit int) ([]*core.ParagraphRecord, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM paragraphs
		WHERE is_valid = 1 AND full_text LIKE '%' || ? || '%'
		ORDER BY id LIMIT ?
	`, substr, limit)
	if err != nil {
		return nil, fmt.Errorf("searching text: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (s *store) ListSources(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT source_name FROM paragraphs ORDER BY source_name`)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning source name: %w", err)
		}
		sources = append(sources, name)
	}
	return sources, rows.Err()
}

func (s *store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM paragraphs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting paragraphs: %w", err)
	}
	return count, nil
}

func (s *store) UpdateDifficulty(ctx context.Context, scores map[string]float64) error {
	if len(scores) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE paragraphs SET difficulty_score = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("preparing difficulty update: %w", err)
	}
	defer stmt.Close()

	for id, score := range scores {
		if score < 0 || score > 1 {
			return fmt.Errorf("paragraph %q: %w: %v", id, core.ErrDifficultyOutOfRange, score)
		}
		if _, err := stmt.ExecContext(ctx, score, id); err != nil {
			return fmt.Errorf("updating difficulty for %q: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing difficulty update: %w", err)
	}
	return nil
}

func (s *store) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*core.ParagraphRecord, error) {
	var (
		record     core.ParagraphRecord
		difficulty sql.NullFloat64
	)
	err := row.Scan(
		&record.Id,
		&record.SourceName,
		&record.SourceFile,
		&record.ParagraphIndex,
		&record.OpeningSentence,
		&record.Text,
		&record.WordCount,
		&record.Valid,
		&difficulty,
	)
	if err != nil {
		return nil, err
	}
	if difficulty.Valid {
		record.Difficulty = &difficulty.Float64
	}
	return &record, nil
}

func collectRecords(rows *sql.Rows) ([]*core.ParagraphRecord, error) {
	var records []*core.ParagraphRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
