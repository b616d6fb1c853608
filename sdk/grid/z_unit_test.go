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

package grid

import "testing"

func TestPosArithmetic(t *testing.T) {
	p := P(3, 5)
	if got := p.Offset(P(1, -2)); got != P(4, 3) {
		t.Fatalf("offset result: %v", got)
	}
	if got := p.Delta(P(1, 2)); got != P(2, 3) {
		t.Fatalf("delta result: %v", got)
	}
	if P(1, 2) != P(1, 2) {
		t.Fatalf("pos should compare by value")
	}
}

func TestDirSet(t *testing.T) {
	s := Dirs(North, West)
	if !s.Has(North) || !s.Has(West) || s.Has(South) || s.Has(East) {
		t.Fatalf("unexpected dirset: %v", s)
	}
	s = s.With(South).Without(North)
	if s.Has(North) || !s.Has(South) {
		t.Fatalf("with/without failed: %v", s)
	}
	if AllDirs.Without(North).Without(South).Without(East).Without(West) != NoDirs {
		t.Fatalf("alldirs should reduce to nodirs")
	}

	var seen []Direction
	Dirs(East, North).Each(func(d Direction) { seen = append(seen, d) })
	if len(seen) != 2 || seen[0] != North || seen[1] != East {
		t.Fatalf("each order wrong: %v", seen)
	}
}

func TestBitGridSetUnset(t *testing.T) {
	g := NewBitGrid(9, 7) // 故意非 64 對齊
	if g.IsSet(P(0, 0)) || g.IsSet(P(8, 6)) {
		t.Fatalf("new grid should be empty")
	}
	g.Set(P(8, 6))
	g.Set(P(0, 0))
	if !g.IsSet(P(8, 6)) || !g.IsSet(P(0, 0)) {
		t.Fatalf("set failed")
	}
	if g.Count() != 2 {
		t.Fatalf("count = %d", g.Count())
	}
	g.Unset(P(8, 6))
	if g.IsSet(P(8, 6)) {
		t.Fatalf("unset failed")
	}
	// 重複 unset 應為 no-op
	g.Unset(P(8, 6))
	if g.Count() != 1 {
		t.Fatalf("count after double unset = %d", g.Count())
	}
}

func TestBitGridSwap(t *testing.T) {
	g := NewBitGrid(4, 4)
	g.Set(P(1, 1))
	g.Swap(P(1, 1), P(3, 2))
	if g.IsSet(P(1, 1)) || !g.IsSet(P(3, 2)) {
		t.Fatalf("swap did not move bit")
	}

	// 兩邊同值的 swap 是 no-op
	g.Swap(P(0, 0), P(0, 1))
	if g.IsSet(P(0, 0)) || g.IsSet(P(0, 1)) {
		t.Fatalf("swap of equal bits should be no-op")
	}
	g.Set(P(0, 0))
	g.Set(P(0, 1))
	g.Swap(P(0, 0), P(0, 1))
	if !g.IsSet(P(0, 0)) || !g.IsSet(P(0, 1)) {
		t.Fatalf("swap of equal set bits should be no-op")
	}
}

func TestBitGridSnapshotRestore(t *testing.T) {
	g := NewBitGrid(8, 8)
	g.Set(P(2, 3))
	g.Set(P(7, 7))
	snap := g.Snapshot()

	h := NewBitGrid(8, 8)
	if err := h.Restore(snap); err != nil {
		t.Fatalf("restore err: %v", err)
	}
	if !h.Equal(g) {
		t.Fatalf("restored grid differs")
	}

	bad := NewBitGrid(16, 16)
	if err := bad.Restore(snap); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}
