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

package board

import (
	"testing"

	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/sdk/match"
	"github.com/zintix-labs/matchlab/spec"
)

func newTestBoard(cols, rows int, patterns []*match.Pattern, rules []Rule) *Board {
	return New(NewState(cols, rows), patterns, rules)
}

func mustPattern(t *testing.T, name string, pt spec.PieceID, spaces []grid.Pos, rank int) *match.Pattern {
	t.Helper()
	p, err := match.NewPattern(name, pt, spaces, rank)
	if err != nil {
		t.Fatalf("pattern %q: %v", name, err)
	}
	return p
}

func TestNewBoardAllWalls(t *testing.T) {
	b := newTestBoard(4, 3, nil, nil)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if got := b.Piece(grid.P(x, y)); got != Wall() {
				t.Fatalf("pos (%d,%d): expected wall, got %v", x, y, got)
			}
		}
	}
}

func TestPieceOutOfBoundsPanics(t *testing.T) {
	b := newTestBoard(2, 2, nil, nil)
	for _, pos := range []grid.Pos{grid.P(-1, 0), grid.P(0, -1), grid.P(2, 0), grid.P(0, 2)} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("Piece(%v): expected panic", pos)
				}
			}()
			b.Piece(pos)
		}()
	}
}

func TestSetPieceOutOfBoundsPanics(t *testing.T) {
	b := newTestBoard(2, 2, nil, nil)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on out-of-bounds SetPiece")
		}
	}()
	b.SetPiece(grid.P(5, 5), Empty())
}

func TestSetPieceReturnsPrevious(t *testing.T) {
	b := newTestBoard(3, 3, nil, nil)
	p1 := Regular(1, grid.AllDirs)
	p2 := Regular(2, grid.AllDirs)

	if prev := b.SetPiece(grid.P(1, 1), p1); prev != Wall() {
		t.Fatalf("first overwrite: expected previous wall, got %v", prev)
	}
	if prev := b.SetPiece(grid.P(1, 1), p2); prev != p1 {
		t.Fatalf("second overwrite: expected previous %v, got %v", p1, prev)
	}
	if prev := b.SetPiece(grid.P(1, 1), Empty()); prev != p2 {
		t.Fatalf("third overwrite: expected previous %v, got %v", p2, prev)
	}
	if got := b.Piece(grid.P(1, 1)); got != Empty() {
		t.Fatalf("final cell: expected empty, got %v", got)
	}
}

func TestSetPieceSameTypeTwice(t *testing.T) {
	b := newTestBoard(3, 3, nil, nil)
	p1 := Regular(1, grid.AllDirs)
	b.SetPiece(grid.P(0, 0), p1)
	if prev := b.SetPiece(grid.P(0, 0), p1); prev != p1 {
		t.Fatalf("expected previous %v, got %v", p1, prev)
	}
	if got := b.Piece(grid.P(0, 0)); got != p1 {
		t.Fatalf("expected %v, got %v", p1, got)
	}
}

func TestSwapAdjacentPieces(t *testing.T) {
	b := newTestBoard(3, 3, nil, nil)
	p1 := Regular(1, grid.AllDirs)
	p2 := Regular(2, grid.AllDirs)
	b.SetPiece(grid.P(0, 0), p1)
	b.SetPiece(grid.P(1, 0), p2)

	if !b.SwapPieces(grid.P(0, 0), grid.P(1, 0)) {
		t.Fatalf("expected swap to succeed")
	}
	if got := b.Piece(grid.P(0, 0)); got != p2 {
		t.Fatalf("pos (0,0): expected %v, got %v", p2, got)
	}
	if got := b.Piece(grid.P(1, 0)); got != p1 {
		t.Fatalf("pos (1,0): expected %v, got %v", p1, got)
	}
}

func TestSwapDistantPiecesAllowedByDefault(t *testing.T) {
	b := newTestBoard(5, 5, nil, nil)
	p1 := Regular(1, grid.AllDirs)
	p2 := Regular(2, grid.AllDirs)
	b.SetPiece(grid.P(0, 0), p1)
	b.SetPiece(grid.P(4, 4), p2)

	if !b.SwapPieces(grid.P(0, 0), grid.P(4, 4)) {
		t.Fatalf("expected distant swap to succeed without extra rules")
	}
	if got := b.Piece(grid.P(0, 0)); got != p2 {
		t.Fatalf("pos (0,0): expected %v, got %v", p2, got)
	}
}

func TestSwapSamePosIdempotent(t *testing.T) {
	b := newTestBoard(3, 3, nil, nil)
	p1 := Regular(1, grid.NoDirs)
	b.SetPiece(grid.P(1, 1), p1)
	pending := b.State().PendingChecks()

	// 同一格互換必定成功，即使 piece 完全不可移動,也不重新排入檢查。
	if !b.SwapPieces(grid.P(1, 1), grid.P(1, 1)) {
		t.Fatalf("expected self swap to succeed")
	}
	if got := b.Piece(grid.P(1, 1)); got != p1 {
		t.Fatalf("expected %v unchanged, got %v", p1, got)
	}
	if got := b.State().PendingChecks(); got != pending {
		t.Fatalf("expected pending checks unchanged at %d, got %d", pending, got)
	}
}

func TestSwapWallRejected(t *testing.T) {
	b := newTestBoard(3, 3, nil, nil)
	p1 := Regular(1, grid.AllDirs)
	b.SetPiece(grid.P(0, 0), p1)

	if b.SwapPieces(grid.P(0, 0), grid.P(1, 0)) {
		t.Fatalf("expected swap with wall to fail")
	}
	if got := b.Piece(grid.P(0, 0)); got != p1 {
		t.Fatalf("expected %v unchanged, got %v", p1, got)
	}
}

func TestSwapEmptyAllowed(t *testing.T) {
	b := newTestBoard(3, 3, nil, nil)
	p1 := Regular(1, grid.AllDirs)
	b.SetPiece(grid.P(0, 0), p1)
	b.SetPiece(grid.P(1, 0), Empty())

	if !b.SwapPieces(grid.P(0, 0), grid.P(1, 0)) {
		t.Fatalf("expected swap with empty to succeed")
	}
	if got := b.Piece(grid.P(0, 0)); got != Empty() {
		t.Fatalf("pos (0,0): expected empty, got %v", got)
	}
	if got := b.Piece(grid.P(1, 0)); got != p1 {
		t.Fatalf("pos (1,0): expected %v, got %v", p1, got)
	}
}

func TestSwapMovabilityGating(t *testing.T) {
	b := newTestBoard(3, 3, nil, nil)
	// 缺北向移動力的 piece 不能往上換,不論對面那顆能不能動。
	stuck := Regular(1, grid.NoDirs.With(grid.South).With(grid.East).With(grid.West))
	b.SetPiece(grid.P(1, 0), stuck)
	b.SetPiece(grid.P(1, 1), Empty())

	if b.SwapPieces(grid.P(1, 0), grid.P(1, 1)) {
		t.Fatalf("expected vertical swap to fail without north movability")
	}
	if b.SwapPieces(grid.P(1, 1), grid.P(1, 0)) {
		t.Fatalf("argument order must not matter for movability gating")
	}
	if got := b.Piece(grid.P(1, 0)); got != stuck {
		t.Fatalf("expected %v unchanged, got %v", stuck, got)
	}

	// 水平方向仍可換。
	b.SetPiece(grid.P(2, 0), Empty())
	if !b.SwapPieces(grid.P(1, 0), grid.P(2, 0)) {
		t.Fatalf("expected horizontal swap to succeed")
	}
}

func TestSwapCustomRuleShortCircuit(t *testing.T) {
	calls := 0
	reject := func(v View, first, second grid.Pos) bool {
		calls++
		return false
	}
	never := func(v View, first, second grid.Pos) bool {
		calls += 100
		return true
	}
	b := newTestBoard(3, 3, nil, []Rule{reject, never})
	unmovable := Regular(1, grid.NoDirs)
	b.SetPiece(grid.P(0, 0), unmovable)
	b.SetPiece(grid.P(1, 0), Empty())

	// 內建移動力規則先擋下,自訂規則連跑都不跑。
	if b.SwapPieces(grid.P(0, 0), grid.P(1, 0)) {
		t.Fatalf("expected swap to fail")
	}
	if calls != 0 {
		t.Fatalf("expected custom rules skipped, got %d calls", calls)
	}

	b.SetPiece(grid.P(0, 0), Regular(1, grid.AllDirs))
	if b.SwapPieces(grid.P(0, 0), grid.P(1, 0)) {
		t.Fatalf("expected reject rule to block swap")
	}
	if calls != 1 {
		t.Fatalf("expected exactly one rule call, got %d", calls)
	}
}

func TestNextMatchEmptyQueue(t *testing.T) {
	b := newTestBoard(3, 3, nil, nil)
	if m := b.NextMatch(); m != nil {
		t.Fatalf("expected nil match on empty queue, got %v", m)
	}
}

func TestNextMatchRowOfThree(t *testing.T) {
	row3 := []grid.Pos{grid.P(0, 0), grid.P(1, 0), grid.P(2, 0)}
	pat := mustPattern(t, "row3", 1, row3, 3)
	b := newTestBoard(5, 5, []*match.Pattern{pat}, nil)

	p1 := Regular(1, grid.AllDirs)
	b.SetPiece(grid.P(1, 1), p1)
	b.SetPiece(grid.P(2, 1), p1)
	b.SetPiece(grid.P(3, 1), p1)

	m := b.NextMatch()
	if m == nil {
		t.Fatalf("expected a match")
	}
	if m.Pattern != pat {
		t.Fatalf("expected pattern %q, got %q", pat.Name(), m.Pattern.Name())
	}
	if m.ChangedPos != grid.P(1, 1) {
		t.Fatalf("expected changed pos (1,1), got %v", m.ChangedPos)
	}
	want := []grid.Pos{grid.P(1, 1), grid.P(2, 1), grid.P(3, 1)}
	if len(m.Positions) != len(want) {
		t.Fatalf("expected %d positions, got %d", len(want), len(m.Positions))
	}
	for i, p := range want {
		if m.Positions[i] != p {
			t.Fatalf("position %d: expected %v, got %v", i, p, m.Positions[i])
		}
	}
}

func TestNextMatchWrongTypeNoMatch(t *testing.T) {
	row3 := []grid.Pos{grid.P(0, 0), grid.P(1, 0), grid.P(2, 0)}
	pat := mustPattern(t, "row3", 1, row3, 3)
	b := newTestBoard(5, 5, []*match.Pattern{pat}, nil)

	p2 := Regular(2, grid.AllDirs)
	b.SetPiece(grid.P(1, 1), p2)
	b.SetPiece(grid.P(2, 1), p2)
	b.SetPiece(grid.P(3, 1), p2)

	if m := b.NextMatch(); m != nil {
		t.Fatalf("expected no match for other type, got %v", m)
	}
	if got := b.State().PendingChecks(); got != 0 {
		t.Fatalf("expected queue drained, got %d pending", got)
	}
}

func TestNextMatchOverwrittenCellSkipped(t *testing.T) {
	row2 := []grid.Pos{grid.P(0, 0), grid.P(1, 0)}
	pat := mustPattern(t, "row2", 1, row2, 2)
	b := newTestBoard(4, 4, []*match.Pattern{pat}, nil)

	p1 := Regular(1, grid.AllDirs)
	b.SetPiece(grid.P(0, 0), p1)
	b.SetPiece(grid.P(1, 0), p1)
	// 蓋掉其中一格後,舊的排入紀錄不該再回報 match。
	b.SetPiece(grid.P(1, 0), Regular(2, grid.AllDirs))

	if m := b.NextMatch(); m != nil {
		t.Fatalf("expected no match after overwrite, got %v at %v", m.Pattern.Name(), m.ChangedPos)
	}
}

func TestNextMatchQueueOrder(t *testing.T) {
	single := []grid.Pos{grid.P(0, 0)}
	pat := mustPattern(t, "single", 1, single, 1)
	b := newTestBoard(4, 4, []*match.Pattern{pat}, nil)

	b.SetPiece(grid.P(0, 0), Regular(1, grid.AllDirs))
	b.SetPiece(grid.P(1, 0), Regular(2, grid.AllDirs))
	b.SetPiece(grid.P(2, 0), Regular(1, grid.AllDirs))

	m := b.NextMatch()
	if m == nil || m.ChangedPos != grid.P(0, 0) {
		t.Fatalf("expected first match at (0,0), got %v", m)
	}
	m = b.NextMatch()
	if m == nil || m.ChangedPos != grid.P(2, 0) {
		t.Fatalf("expected second match at (2,0), got %v", m)
	}
	if m = b.NextMatch(); m != nil {
		t.Fatalf("expected drained queue, got %v", m)
	}
}

func TestNextMatchRankPrecedence(t *testing.T) {
	row2 := mustPattern(t, "row2", 1, []grid.Pos{grid.P(0, 0), grid.P(1, 0)}, 2)
	row3 := mustPattern(t, "row3", 1, []grid.Pos{grid.P(0, 0), grid.P(1, 0), grid.P(2, 0)}, 3)
	// 故意以低 rank 在前的順序建構;回報仍須優先高 rank。
	b := newTestBoard(5, 5, []*match.Pattern{row2, row3}, nil)

	p1 := Regular(1, grid.AllDirs)
	b.SetPiece(grid.P(0, 0), p1)
	b.SetPiece(grid.P(1, 0), p1)
	b.SetPiece(grid.P(2, 0), p1)

	m := b.NextMatch()
	if m == nil {
		t.Fatalf("expected a match")
	}
	if m.Pattern != row3 {
		t.Fatalf("expected rank-3 pattern, got %q", m.Pattern.Name())
	}
}

func TestNextMatchSamePosQueuedTwice(t *testing.T) {
	single := mustPattern(t, "single", 1, []grid.Pos{grid.P(0, 0)}, 1)
	b := newTestBoard(4, 4, []*match.Pattern{single}, nil)

	p1 := Regular(1, grid.AllDirs)
	b.SetPiece(grid.P(0, 0), p1)
	b.SetPiece(grid.P(0, 0), p1)

	if m := b.NextMatch(); m == nil {
		t.Fatalf("expected first match")
	}
	if m := b.NextMatch(); m == nil {
		t.Fatalf("expected second match for the re-queued cell")
	}
	if m := b.NextMatch(); m != nil {
		t.Fatalf("expected drained queue, got %v", m)
	}
}

func TestStateExportImportRoundTrip(t *testing.T) {
	b := newTestBoard(4, 4, nil, nil)
	b.SetPiece(grid.P(0, 0), Regular(1, grid.AllDirs))
	b.SetPiece(grid.P(1, 0), Regular(2, grid.NoDirs.With(grid.South)))
	b.SetPiece(grid.P(2, 2), Empty())

	e := b.State().Export()
	st, err := ImportState(e)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	b2 := New(st, nil, nil)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			pos := grid.P(x, y)
			if got, want := b2.Piece(pos), b.Piece(pos); got != want {
				t.Fatalf("pos %v: expected %v, got %v", pos, want, got)
			}
		}
	}
	if got, want := b2.State().PendingChecks(), b.State().PendingChecks(); got != want {
		t.Fatalf("expected %d pending checks, got %d", want, got)
	}
}

func TestImportStateRejectsBadShape(t *testing.T) {
	b := newTestBoard(4, 4, nil, nil)
	e := b.State().Export()
	e.Cols = 0
	if _, err := ImportState(e); err == nil {
		t.Fatalf("expected error for zero columns")
	}
}

func TestBoardString(t *testing.T) {
	b := newTestBoard(2, 2, nil, nil)
	b.SetPiece(grid.P(0, 0), Regular(1, grid.AllDirs))
	b.SetPiece(grid.P(1, 1), Empty())
	s := b.String()
	if s == "" {
		t.Fatalf("expected non-empty dump")
	}
}
