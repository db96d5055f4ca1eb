package storage

import (
	"testing"

	"github.com/poiesic/corpora/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalVectorEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry *core.VectorEntry
	}{
		{
			name: "minimal entry",
			entry: &core.VectorEntry{
				Id:         "alpha_p0000",
				SourceName: "alpha",
			},
		},
		{
			name: "full entry",
			entry: &core.VectorEntry{
				Id:              "mixtape_p0042",
				SourceName:      "mixtape",
				OpeningSentence: "למידה מוכוונת מדיניות שונה מלמידה מפוקחת.",
				ParagraphIndex:  42,
				WordCount:       117,
				Text:            "למידה מוכוונת מדיניות שונה מלמידה מפוקחת. הסוכן בוחר פעולות ומקבל תגמול.",
				Vector:          []float32{0.1, -0.25, 0.33, 0.0, 1.5},
			},
		},
		{
			name: "empty vector",
			entry: &core.VectorEntry{
				Id:         "beta_p0001",
				SourceName: "beta",
				Text:       "some text",
				Vector:     []float32{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalVectorEntry(tt.entry)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalVectorEntry(data)
			require.NoError(t, err)
			assert.Equal(t, tt.entry.Id, decoded.Id)
			assert.Equal(t, tt.entry.SourceName, decoded.SourceName)
			assert.Equal(t, tt.entry.OpeningSentence, decoded.OpeningSentence)
			assert.Equal(t, tt.entry.ParagraphIndex, decoded.ParagraphIndex)
			assert.Equal(t, tt.entry.WordCount, decoded.WordCount)
			assert.Equal(t, tt.entry.Text, decoded.Text)
			if len(tt.entry.Vector) == 0 {
				assert.Empty(t, decoded.Vector)
			} else {
				assert.Equal(t, tt.entry.Vector, decoded.Vector)
			}
		})
	}
}

func TestUnmarshalVectorEntry_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated data", MarshalVectorEntry(&core.VectorEntry{
			Id:         "gamma_p0000",
			SourceName: "gamma",
			Text:       "truncate me please, this text will not survive",
			Vector:     []float32{1, 2, 3},
		})[:8]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalVectorEntry(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestRandomQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   RandomQuery
		wantErr bool
	}{
		{"defaults", NewRandomQuery(), false},
		{"tightened difficulty", RandomQuery{MinWords: 50, MaxWords: 150, MinDifficulty: 0.3, MaxDifficulty: 0.7}, false},
		{"negative min words", RandomQuery{MinWords: -1, MaxWords: 10, MaxDifficulty: 1}, true},
		{"inverted word bounds", RandomQuery{MinWords: 100, MaxWords: 50, MaxDifficulty: 1}, true},
		{"difficulty above one", RandomQuery{MinWords: 50, MaxWords: 150, MaxDifficulty: 1.5}, true},
		{"inverted difficulty bounds", RandomQuery{MinWords: 50, MaxWords: 150, MinDifficulty: 0.8, MaxDifficulty: 0.2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidQuery)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
