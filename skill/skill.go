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


// Package skill provides modular, swappable prompt templates for LLM calls.
//
// Each skill encapsulates the prompt for one AI capability. Callers resolve
// skills by name through a Registry, so prompt variants can be swapped —
// for A/B testing or test mocks — without changing the call sites.
//
// Prompts may contain {{name}} placeholders, filled from the vars map
// passed to Prompt. Unmatched placeholders are left as-is.
package skill

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Skill encapsulates the prompt for one AI capability.
// Implementations must be safe for concurrent use.
type Skill interface {
	// Name is the unique skill identifier (e.g. "referee_hint_generator.md").
	Name() string

	// Prompt returns the skill prompt with {{name}} placeholders expanded
	// from vars. vars may be nil.
	Prompt(ctx context.Context, vars map[string]string) (string, error)
}

// FileSkill loads its prompt from a file, lazily on first use, and caches
// it for subsequent calls.
type FileSkill struct {
	name string
	path string

	once   sync.Once
	prompt string
	err    error
}

// NewFileSkill creates a file-backed skill. The file must exist; its
// content is read on first Prompt call.
func NewFileSkill(name, dir string) (*FileSkill, error) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("skill file %s: %w", path, err)
	}
	return &FileSkill{name: name, path: path}, nil
}

// Name returns the skill identifier.
func (s *FileSkill) Name() string {
	return s.name
}

// Prompt returns the file content with placeholders expanded.
func (s *FileSkill) Prompt(ctx context.Context, vars map[string]string) (string, error) {
	s.once.Do(func() {
		data, err := os.ReadFile(s.path)
		if err != nil {
			s.err = fmt.Errorf("reading skill %s: %w", s.path, err)
			return
		}
		s.prompt = string(data)
	})
	if s.err != nil {
		return "", s.err
	}
	return expand(s.prompt, vars), nil
}

// StaticSkill carries a fixed prompt string. Useful for tests and for
// prompts assembled at startup.
type StaticSkill struct {
	name   string
	prompt string
}

// NewStaticSkill creates a skill with a fixed prompt.
func NewStaticSkill(name, prompt string) *StaticSkill {
	return &StaticSkill{name: name, prompt: prompt}
}

// Name returns the skill identifier.
func (s *StaticSkill) Name() string {
	return s.name
}

// Prompt returns the fixed prompt with placeholders expanded.
func (s *StaticSkill) Prompt(ctx context.Context, vars map[string]string) (string, error) {
	return expand(s.prompt, vars), nil
}

// FuncSkill computes its prompt per call. Useful for few-shot prompts that
// depend on runtime state.
type FuncSkill struct {
	name string
	fn   func(ctx context.Context, vars map[string]string) (string, error)
}

// NewFuncSkill creates a skill whose prompt is computed by fn.
func NewFuncSkill(name string, fn func(ctx context.Context, vars map[string]string) (string, error)) *FuncSkill {
	return &FuncSkill{name: name, fn: fn}
}

// Name returns the skill identifier.
func (s *FuncSkill) Name() string {
	return s.name
}

// Prompt delegates to the skill's function.
func (s *FuncSkill) Prompt(ctx context.Context, vars map[string]string) (string, error) {
	return s.fn(ctx, vars)
}

// expand replaces {{key}} placeholders with values from vars. Placeholders
// without a matching key stay untouched.
func expand(prompt string, vars map[string]string) string {
	if len(vars) == 0 {
		return prompt
	}
	pairs := make([]string, 0, len(vars)*2)
	for key, value := range vars {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(prompt)
}
