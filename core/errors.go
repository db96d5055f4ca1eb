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

import "errors"

// Domain validation errors
var (
	// ErrInvalidParagraph indicates a ParagraphRecord failed validation.
	ErrInvalidParagraph = errors.New("invalid paragraph record")

	// ErrEmptyID indicates the Id field is empty.
	ErrEmptyID = errors.New("paragraph id cannot be empty")

	// ErrEmptySourceName indicates the SourceName field is empty.
	ErrEmptySourceName = errors.New("source name cannot be empty")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("paragraph text cannot be empty")

	// ErrNegativeIndex indicates a negative paragraph sequence index.
	ErrNegativeIndex = errors.New("paragraph index cannot be negative")

	// ErrDifficultyOutOfRange indicates a difficulty score outside [0, 1].
	ErrDifficultyOutOfRange = errors.New("difficulty score must be in [0, 1]")

	// ErrEmptyCorpus indicates a corpus build produced no paragraphs.
	// This is a data-integrity failure, not a recoverable condition.
	ErrEmptyCorpus = errors.New("corpus contains no paragraphs")
)
