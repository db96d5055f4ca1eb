package corpora

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/corpora/ai/mock"
)

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir, WithProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		// Verify components are initialized
		assert.NotNil(t, db.Paragraphs())
		assert.NotNil(t, db.Vectors())
		assert.NotNil(t, db.Provider())
		assert.NotNil(t, db.Skills())
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a database at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile, WithProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := NewDatabase(tmpDir, WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NotNil(t, db)

	// Close the database
	err = db.Close()
	assert.NoError(t, err)
}

func TestDatabase_SkillDir(t *testing.T) {
	skillDir := t.TempDir()
	err := os.WriteFile(filepath.Join(skillDir, "referee_scorer.md"), []byte("score it"), 0644)
	require.NoError(t, err)

	db, err := NewDatabase(t.TempDir(),
		WithProvider(mock.NewMockProvider()),
		WithSkillDir(skillDir))
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, 1, db.Skills().Len())
}

func TestDatabase_FactoryMethods(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := NewDatabase(tmpDir, WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NotNil(t, db)
	defer db.Close()

	t.Run("can create embedding builder", func(t *testing.T) {
		builder := db.NewEmbeddingBuilder()
		require.NotNil(t, builder)
	})

	t.Run("can create difficulty indexer", func(t *testing.T) {
		indexer := db.NewDifficultyIndexer()
		require.NotNil(t, indexer)
	})

	t.Run("can create retriever", func(t *testing.T) {
		retriever, err := db.NewRetriever()
		require.NoError(t, err)
		require.NotNil(t, retriever)
	})
}
