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


// Package index builds the derived layers on top of an ingested corpus:
// paragraph embeddings for the vector store, and per-paragraph difficulty
// scores for the metadata store.
//
// Embeddings are generated in batches and normalized to unit length, so the
// vector store can treat cosine distance as 1 minus the dot product.
//
// Difficulty is a composite of how semantically crowded a paragraph's
// neighborhood is, how distinctive its opening sentence is, how large its
// source document is, and how close it sits to other source documents. The
// scorer writes results back through the metadata store in batches, with
// progress reported on the way.
package index
