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


// Package search retrieves candidate paragraphs for a query and presents
// them to a guesser without positional bias.
//
// The Retriever merges two channels: a priority channel restricted to the
// query's source document and a corpus-wide fill channel, deduplicated by
// paragraph ID with priority winning. When vector search yields nothing it
// falls back to the metadata store's per-source rows.
//
// The Selector shuffles candidates before presentation and maps the picked
// display position back to the original ranking, so a guesser that always
// answers "1" gains nothing from position alone.
package search
