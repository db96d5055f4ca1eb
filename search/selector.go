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


package search

import (
	"math/rand/v2"

	"github.com/poiesic/corpora/core"
)

// Presentation is a shuffled view of ranked candidates handed to a guesser.
// The guesser sees only the shuffled order; the mapping back to the original
// ranking stays private so display position carries no signal.
type Presentation struct {
	// Shuffled is the candidate list in display order.
	Shuffled []*core.Candidate

	original  []*core.Candidate
	positions map[int]int // 1-based display position -> original index
}

// Present takes the top k ranked candidates and shuffles them for display.
// rng may be nil, in which case the global source is used; passing a seeded
// rng makes the shuffle reproducible for tests.
func Present(candidates []*core.Candidate, k int, rng *rand.Rand) *Presentation {
	if k < 0 {
		k = 0
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	swap := func(i, j int) { order[i], order[j] = order[j], order[i] }
	if rng != nil {
		rng.Shuffle(k, swap)
	} else {
		rand.Shuffle(k, swap)
	}

	p := &Presentation{
		Shuffled:  make([]*core.Candidate, k),
		original:  candidates[:k],
		positions: make(map[int]int, k),
	}
	for pos, orig := range order {
		p.Shuffled[pos] = candidates[orig]
		p.positions[pos+1] = orig
	}
	return p
}

// Resolve maps a guesser's 1-based pick in display order back to the
// candidate's original ranking. A pick that is non-positive or beyond the
// display list resolves to the top-ranked candidate. Returns nil only when
// the presentation is empty.
func (p *Presentation) Resolve(pick int) *core.Candidate {
	if len(p.original) == 0 {
		return nil
	}

	orig, ok := p.positions[pick]
	if pick <= 0 || !ok {
		orig = 0
	}
	if orig < 0 {
		orig = 0
	}
	if orig >= len(p.original) {
		orig = len(p.original) - 1
	}
	return p.original[orig]
}
