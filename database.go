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


package corpora

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/corpora/ai"
	"github.com/poiesic/corpora/ai/openai"
	"github.com/poiesic/corpora/index"
	"github.com/poiesic/corpora/search"
	"github.com/poiesic/corpora/skill"
	"github.com/poiesic/corpora/storage"
	"github.com/poiesic/corpora/storage/badger"
	"github.com/poiesic/corpora/storage/sqlite"
)

const (
	metadataFileName = "paragraphs.db"
	vectorDirName    = "vectors"
)

// Database bundles the paragraph metadata store, the vector store and the
// AI provider behind a single open/close lifecycle.
type Database struct {
	paragraphs storage.ParagraphStore
	vectors    storage.VectorStore
	provider   ai.Provider
	skills     *skill.Registry
	logger     *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	skillDir string
}

// WithAIConfig overrides the AI provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a prebuilt AI provider instead of constructing the
// default OpenAI-compatible one. The database takes ownership and closes
// it with Close.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithSkillDir loads the built-in prompt skills from dir into the
// database's skill registry.
func WithSkillDir(dir string) DatabaseOption {
	return func(o *databaseOptions) {
		o.skillDir = dir
	}
}

// NewDatabase opens (or creates) the corpus database rooted at dataDir.
// The metadata store lives at dataDir/paragraphs.db and the vector store
// at dataDir/vectors.
func NewDatabase(dataDir string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	// Open metadata store
	paragraphs, err := sqlite.Open(filepath.Join(dataDir, metadataFileName))
	if err != nil {
		return nil, err
	}

	// Open vector store
	vectors, err := badger.Open(filepath.Join(dataDir, vectorDirName))
	if err != nil {
		paragraphs.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			vectors.Close()
			paragraphs.Close()
			return nil, err
		}
	}

	skills := skill.NewRegistry()
	if options.skillDir != "" {
		skills = skill.NewDefaultRegistry(options.skillDir)
	}

	return &Database{
		paragraphs: paragraphs,
		vectors:    vectors,
		provider:   provider,
		skills:     skills,
		logger:     slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	// Close stores
	if err := db.vectors.Close(); err != nil {
		db.logger.Error("error closing vector store", "err", err)
		return err
	}
	if err := db.paragraphs.Close(); err != nil {
		db.logger.Error("error closing metadata store", "err", err)
		return err
	}
	return nil
}

func (db *Database) Paragraphs() storage.ParagraphStore {
	return db.paragraphs
}

func (db *Database) Vectors() storage.VectorStore {
	return db.vectors
}

func (db *Database) Provider() ai.Provider {
	return db.provider
}

func (db *Database) Skills() *skill.Registry {
	return db.skills
}

func (db *Database) NewEmbeddingBuilder(opts ...index.EmbeddingOption) *index.EmbeddingBuilder {
	return index.NewEmbeddingBuilder(db.provider.Embedder(), opts...)
}

func (db *Database) NewDifficultyIndexer(opts ...index.DifficultyOption) *index.DifficultyIndexer {
	return index.NewDifficultyIndexer(db.paragraphs, db.vectors, db.provider.Embedder(), opts...)
}

func (db *Database) NewRetriever(opts ...search.Option) (*search.Retriever, error) {
	return search.NewRetriever(db.paragraphs, db.vectors, db.provider.Embedder(), opts...)
}
