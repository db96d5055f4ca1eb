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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/corpora/core"
)

var vectorSer = ord.NewSliceSer[float32](raw.Float32)

// MarshalVectorEntry serializes a VectorEntry to bytes.
func MarshalVectorEntry(entry *core.VectorEntry) []byte {
	size := ord.String.Size(entry.Id) +
		ord.String.Size(entry.SourceName) +
		ord.String.Size(entry.OpeningSentence) +
		varint.Int.Size(entry.ParagraphIndex) +
		varint.Int.Size(entry.WordCount) +
		ord.String.Size(entry.Text) +
		vectorSer.Size(entry.Vector)
	buf := make([]byte, size)
	n := ord.String.Marshal(entry.Id, buf)
	n += ord.String.Marshal(entry.SourceName, buf[n:])
	n += ord.String.Marshal(entry.OpeningSentence, buf[n:])
	n += varint.Int.Marshal(entry.ParagraphIndex, buf[n:])
	n += varint.Int.Marshal(entry.WordCount, buf[n:])
	n += ord.String.Marshal(entry.Text, buf[n:])
	vectorSer.Marshal(entry.Vector, buf[n:])
	return buf
}

// UnmarshalVectorEntry deserializes a VectorEntry from bytes.
func UnmarshalVectorEntry(data []byte) (*core.VectorEntry, error) {
	var (
		entry core.VectorEntry
		n     int
		m     int
		err   error
	)
	if entry.Id, m, err = ord.String.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	n += m
	if entry.SourceName, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: source name: %w", ErrSerializationFailed, err)
	}
	n += m
	if entry.OpeningSentence, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: opening sentence: %w", ErrSerializationFailed, err)
	}
	n += m
	if entry.ParagraphIndex, m, err = varint.Int.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: paragraph index: %w", ErrSerializationFailed, err)
	}
	n += m
	if entry.WordCount, m, err = varint.Int.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: word count: %w", ErrSerializationFailed, err)
	}
	n += m
	if entry.Text, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: text: %w", ErrSerializationFailed, err)
	}
	n += m
	if entry.Vector, _, err = vectorSer.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: vector: %w", ErrSerializationFailed, err)
	}
	return &entry, nil
}
