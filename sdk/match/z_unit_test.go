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

package match

import (
	"testing"

	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

func row3Pattern(t *testing.T) *Pattern {
	t.Helper()
	p, err := NewPattern("row3", 1, []grid.Pos{grid.P(0, 0), grid.P(1, 0), grid.P(2, 0)}, 3)
	if err != nil {
		t.Fatalf("row3: %v", err)
	}
	return p
}

func TestNewPatternValidation(t *testing.T) {
	if _, err := NewPattern("bad", 0, []grid.Pos{grid.P(0, 0)}, 1); err == nil {
		t.Fatalf("expected error for zero piece type")
	}
	if _, err := NewPattern("bad", 1, nil, 1); err == nil {
		t.Fatalf("expected error for empty spaces")
	}
	if _, err := NewPattern("bad", 1, []grid.Pos{grid.P(0, 0), grid.P(0, 0)}, 1); err == nil {
		t.Fatalf("expected error for duplicated spaces")
	}
}

func TestFindEachVariantAnchor(t *testing.T) {
	pat := row3Pattern(t)
	g := grid.NewBitGrid(8, 8)
	g.Set(grid.P(2, 4))
	g.Set(grid.P(3, 4))
	g.Set(grid.P(4, 4))

	// 三個落點都要能觸發同一組命中。
	for _, pos := range []grid.Pos{grid.P(2, 4), grid.P(3, 4), grid.P(4, 4)} {
		hit, ok := Find(g, pat, pos)
		if !ok {
			t.Fatalf("pos %v: expected hit", pos)
		}
		want := []grid.Pos{grid.P(2, 4), grid.P(3, 4), grid.P(4, 4)}
		for i := range want {
			if hit[i] != want[i] {
				t.Fatalf("pos %v hit %d: expected %v, got %v", pos, i, want[i], hit[i])
			}
		}
	}
}

func TestFindMissReturnsFalse(t *testing.T) {
	pat := row3Pattern(t)
	g := grid.NewBitGrid(8, 8)
	g.Set(grid.P(2, 4))
	g.Set(grid.P(3, 4))

	if _, ok := Find(g, pat, grid.P(3, 4)); ok {
		t.Fatalf("expected miss for two-in-a-row")
	}
	if _, ok := Find(g, pat, grid.P(6, 6)); ok {
		t.Fatalf("expected miss for unrelated pos")
	}
}

func TestFindVariantClippedAtEdge(t *testing.T) {
	pat := row3Pattern(t)
	g := grid.NewBitGrid(3, 1)
	g.Set(grid.P(0, 0))
	g.Set(grid.P(1, 0))
	g.Set(grid.P(2, 0))

	// 平移後超出盤面的變體要被剪掉而不是繞回另一行。
	hit, ok := Find(g, pat, grid.P(0, 0))
	if !ok {
		t.Fatalf("expected hit on exact-size grid")
	}
	if hit[0] != grid.P(0, 0) || hit[2] != grid.P(2, 0) {
		t.Fatalf("unexpected hit positions %v", hit)
	}
}

func TestFindLShape(t *testing.T) {
	p, err := NewPattern("corner", 2, []grid.Pos{grid.P(0, 0), grid.P(0, 1), grid.P(1, 0)}, 5)
	if err != nil {
		t.Fatalf("corner: %v", err)
	}
	g := grid.NewBitGrid(6, 6)
	g.Set(grid.P(3, 3))
	g.Set(grid.P(3, 4))
	g.Set(grid.P(4, 3))

	hit, ok := Find(g, p, grid.P(4, 3))
	if !ok {
		t.Fatalf("expected L-shape hit")
	}
	if len(hit) != 3 {
		t.Fatalf("expected 3 positions, got %v", hit)
	}
}

func TestFromSetting(t *testing.T) {
	ps := &spec.PatternSetting{
		PatternUsed: []spec.PatternDef{
			{Name: "row3", PieceID: 1, Rank: 3, Spaces: [][2]int{{0, 0}, {1, 0}, {2, 0}}},
			{Name: "col2", PieceID: 2, Rank: 2, Spaces: [][2]int{{0, 0}, {0, 1}}},
		},
	}
	pats, err := FromSetting(ps)
	if err != nil {
		t.Fatalf("from setting: %v", err)
	}
	if len(pats) != 2 {
		t.Fatalf("expected 2 patterns, got %d", len(pats))
	}
	if pats[0].Name() != "row3" || pats[0].PieceType() != 1 || pats[0].Rank() != 3 {
		t.Fatalf("unexpected first pattern: %v %v %v", pats[0].Name(), pats[0].PieceType(), pats[0].Rank())
	}
	if len(pats[1].Spaces()) != 2 {
		t.Fatalf("expected 2 spaces, got %v", pats[1].Spaces())
	}
}

func TestFromSettingRejectsBadPattern(t *testing.T) {
	ps := &spec.PatternSetting{
		PatternUsed: []spec.PatternDef{
			{Name: "empty", PieceID: 1, Rank: 1},
		},
	}
	if _, err := FromSetting(ps); err == nil {
		t.Fatalf("expected error for pattern without spaces")
	}
}
