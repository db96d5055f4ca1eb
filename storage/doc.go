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


// Package storage provides the storage abstraction layer for corpora.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic. The corpus is held in two stores with
// different access patterns:
//
//   - ParagraphStore: the metadata store. Exact lookups, source listings,
//     filtered random sampling, and substring search over paragraph records.
//   - VectorStore: the vector store. Nearest-neighbor queries over paragraph
//     embeddings, optionally restricted to a single source document.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple storage backend
// implementations:
//
//	store, err := sqlite.Open(path)  // returns storage.ParagraphStore
//	vecs, err := badger.Open(path)   // returns storage.VectorStore
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Usage
//
// Open both stores and close them when done:
//
//	paras, err := sqlite.Open("/path/to/corpus.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer paras.Close()
//
//	vecs, err := badger.Open("/path/to/vectors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer vecs.Close()
package storage
