// Copyright 2025 Zintix Labs
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

package gen

import (
	"math"
	"testing"

	"github.com/zintix-labs/matchlab/sdk/board"
	"github.com/zintix-labs/matchlab/sdk/core"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

func testPieceSetting(weights ...int) *spec.PieceSetting {
	names := []string{"red", "green", "blue", "yellow", "stone", "gem"}
	defs := make([]spec.PieceDef, len(weights))
	for i, w := range weights {
		defs[i] = spec.PieceDef{Name: names[i], Weight: w}
	}
	return &spec.PieceSetting{PieceUsed: defs}
}

func TestNewPieceGeneratorRejectsZeroWeights(t *testing.T) {
	c := core.New(core.Default().New(1))
	if _, err := NewPieceGenerator(c, testPieceSetting(0, 0)); err == nil {
		t.Fatalf("expected error for all-zero weights")
	}
}

func TestNextIDRange(t *testing.T) {
	c := core.New(core.Default().New(3))
	g, err := NewPieceGenerator(c, testPieceSetting(1, 2, 3))
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	for i := 0; i < 1000; i++ {
		id := g.NextID()
		if id < 1 || id > 3 {
			t.Fatalf("id out of range: %d", id)
		}
	}
}

func TestNextIDDistribution(t *testing.T) {
	c := core.New(core.Default().New(5))
	weights := []int{10, 20, 70}
	g, err := NewPieceGenerator(c, testPieceSetting(weights...))
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	trials := 100000
	counts := make(map[spec.PieceID]int)
	for i := 0; i < trials; i++ {
		counts[g.NextID()]++
	}

	total := 0
	for _, w := range weights {
		total += w
	}
	for i, w := range weights {
		want := float64(w) / float64(total)
		got := float64(counts[spec.PieceID(i+1)]) / float64(trials)
		if math.Abs(want-got) > 0.01 {
			t.Errorf("piece %d: expected prob %.3f, got %.3f", i+1, want, got)
		}
	}
}

func TestNextIDSkipsZeroWeight(t *testing.T) {
	c := core.New(core.Default().New(7))
	g, err := NewPieceGenerator(c, testPieceSetting(5, 0, 5))
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	for i := 0; i < 1000; i++ {
		if g.NextID() == 2 {
			t.Fatalf("zero-weight piece was generated")
		}
	}
}

func TestNextPieceCarriesMovable(t *testing.T) {
	c := core.New(core.Default().New(9))
	ps := &spec.PieceSetting{PieceUsed: []spec.PieceDef{
		{Name: "red", Weight: 1},
		{Name: "stone", Movable: []string{"east", "west"}, Weight: 1},
	}}
	g, err := NewPieceGenerator(c, ps)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	seen := map[spec.PieceID]bool{}
	for i := 0; i < 200 && len(seen) < 2; i++ {
		p := g.NextPiece()
		if p.Kind != board.KindRegular {
			t.Fatalf("expected regular piece, got %v", p)
		}
		seen[p.Type] = true
		switch p.Type {
		case 1:
			if p.Movable != grid.AllDirs {
				t.Fatalf("expected all dirs for red, got %v", p.Movable)
			}
		case 2:
			if p.Movable.Has(grid.North) || p.Movable.Has(grid.South) {
				t.Fatalf("stone should not move vertically: %v", p.Movable)
			}
			if !p.Movable.Has(grid.East) || !p.Movable.Has(grid.West) {
				t.Fatalf("stone should move horizontally: %v", p.Movable)
			}
		default:
			t.Fatalf("unexpected piece type %d", p.Type)
		}
	}
	if len(seen) != 2 {
		t.Fatalf("expected both piece types within 200 draws, got %v", seen)
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	g1, err := NewPieceGenerator(core.New(core.Default().New(42)), testPieceSetting(3, 5, 2))
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	g2, err := NewPieceGenerator(core.New(core.Default().New(42)), testPieceSetting(3, 5, 2))
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	for i := 0; i < 100; i++ {
		if g1.NextID() != g2.NextID() {
			t.Fatalf("sequence diverged at %d", i)
		}
	}
}
