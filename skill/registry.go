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


package skill

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// ErrSkillNotRegistered indicates a lookup for a name with no registered
// skill.
var ErrSkillNotRegistered = errors.New("skill not registered")

// BuiltinSkillNames lists the file-backed skills a default registry loads.
var BuiltinSkillNames = []string{
	"warmup_solver.md",
	"referee_hint_generator.md",
	"referee_question_answerer.md",
	"referee_scorer.md",
	"player_question_generator.md",
	"player_guess_maker.md",
}

// Registry maps skill names to skills. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	skills map[string]Skill
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		skills: make(map[string]Skill),
		logger: slog.Default().With("component", "skills"),
	}
}

// NewDefaultRegistry creates a registry populated with the built-in
// file-backed skills found in dir. Missing skill files are logged and
// skipped rather than failing the whole registry.
func NewDefaultRegistry(dir string) *Registry {
	registry := NewRegistry()
	for _, name := range BuiltinSkillNames {
		fileSkill, err := NewFileSkill(name, dir)
		if err != nil {
			registry.logger.Warn("skipping unavailable skill", "name", name, "error", err)
			continue
		}
		registry.Register(fileSkill)
	}
	return registry
}

// Register adds a skill, replacing any existing skill with the same name.
func (r *Registry) Register(s Skill) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.skills[s.Name()]; exists {
		r.logger.Debug("replacing registered skill", "name", s.Name())
	}
	r.skills[s.Name()] = s
}

// Get returns the skill registered under name. An unknown name yields an
// error listing the available skills.
func (r *Registry) Get(name string) (Skill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.skills[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrSkillNotRegistered, name, r.availableLocked())
	}
	return s, nil
}

// Names returns the registered skill names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.skills))
	for name := range r.skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered skills.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.skills)
}

func (r *Registry) availableLocked() string {
	if len(r.skills) == 0 {
		return "none"
	}
	names := make([]string, 0, len(r.skills))
	for name := range r.skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
