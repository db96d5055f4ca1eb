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


package core

import "fmt"

// ValidateParagraphRecord validates a ParagraphRecord according to domain rules.
//
// Validation rules:
//   - Id, SourceName and Text must not be empty
//   - ParagraphIndex must not be negative
//   - Difficulty, when present, must be in [0, 1]
//
// NOT validated (populated by later pipeline stages):
//   - OpeningSentence (the raw first line is an acceptable fallback)
//   - Valid flag (false records are kept for bookkeeping)
func ValidateParagraphRecord(record *ParagraphRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidParagraph)
	}

	if record.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidParagraph, ErrEmptyID)
	}

	if record.SourceName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidParagraph, ErrEmptySourceName)
	}

	if record.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidParagraph, ErrEmptyText)
	}

	if record.ParagraphIndex < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidParagraph, ErrNegativeIndex)
	}

	if record.Difficulty != nil {
		if *record.Difficulty < 0 || *record.Difficulty > 1 {
			return fmt.Errorf("%w: %w: %f", ErrInvalidParagraph, ErrDifficultyOutOfRange, *record.Difficulty)
		}
	}

	return nil
}
