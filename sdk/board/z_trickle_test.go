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

	"github.com/zintix-labs/matchlab/sdk/buf"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/sdk/match"
)

// setColumn 由下而上填一整段直行，其餘格維持原樣（通常是 Wall）。
func setColumn(b *Board, x int, pieces ...Piece) {
	for y, p := range pieces {
		b.SetPiece(grid.P(x, y), p)
	}
}

func assertMoves(t *testing.T, got []buf.Move, want []buf.Move) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d moves %v, got %d moves %v", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("move %d: expected %v, got %v (all: %v)", i, want[i], got[i], got)
		}
	}
}

func assertPieces(t *testing.T, b *Board, want map[grid.Pos]Piece) {
	t.Helper()
	for pos, p := range want {
		if got := b.Piece(pos); got != p {
			t.Fatalf("pos %v: expected %v, got %v", pos, p, got)
		}
	}
}

// assertSettled 檢查直落穩定：任何可往南移動的 piece 下方都不是空格。
func assertSettled(t *testing.T, b *Board) {
	t.Helper()
	for y := 1; y < b.Rows(); y++ {
		for x := 0; x < b.Cols(); x++ {
			pos := grid.P(x, y)
			p := b.Piece(pos)
			if p.Kind != KindRegular || !p.Movable.Has(grid.South) {
				continue
			}
			below := grid.P(x, y-1)
			if b.Piece(below) == Empty() {
				t.Fatalf("piece at %v still has empty below at %v:\n%s", pos, below, b)
			}
		}
	}
}

func TestTrickleEmptyBoardNoMoves(t *testing.T) {
	b := newTestBoard(4, 4, nil, nil)
	if moves := b.Trickle(); len(moves) != 0 {
		t.Fatalf("expected no moves on an all-wall board, got %v", moves)
	}
}

func TestTrickleTwoColumnDrop(t *testing.T) {
	p1 := Regular(1, grid.AllDirs)
	b := newTestBoard(2, 3, nil, nil)
	setColumn(b, 0, p1, Empty(), Empty())
	setColumn(b, 1, Empty(), Empty(), p1)

	moves := b.Trickle()

	assertMoves(t, moves, []buf.Move{
		{From: grid.P(1, 2), To: grid.P(1, 0)},
	})
	assertPieces(t, b, map[grid.Pos]Piece{
		grid.P(0, 0): p1,
		grid.P(1, 0): p1,
		grid.P(1, 1): Empty(),
		grid.P(1, 2): Empty(),
	})
	assertSettled(t, b)
}

func TestTrickleDiagonalWestPreferred(t *testing.T) {
	p1 := Regular(1, grid.AllDirs)
	b := newTestBoard(3, 3, nil, nil)
	// 正下方是 Wall,西南與東南都是空格;西側優先。
	b.SetPiece(grid.P(0, 0), Empty())
	b.SetPiece(grid.P(2, 0), Empty())
	b.SetPiece(grid.P(1, 1), p1)

	moves := b.Trickle()

	assertMoves(t, moves, []buf.Move{
		{From: grid.P(1, 1), To: grid.P(0, 0)},
	})
	assertPieces(t, b, map[grid.Pos]Piece{
		grid.P(0, 0): p1,
		grid.P(1, 1): Empty(),
		grid.P(2, 0): Empty(),
	})
}

func TestTrickleDiagonalEastFallback(t *testing.T) {
	p1 := Regular(1, grid.AllDirs)
	b := newTestBoard(3, 3, nil, nil)
	b.SetPiece(grid.P(2, 0), Empty())
	b.SetPiece(grid.P(1, 1), p1)

	moves := b.Trickle()

	assertMoves(t, moves, []buf.Move{
		{From: grid.P(1, 1), To: grid.P(2, 0)},
	})
}

func TestTrickleSouthImmovableBlocksColumn(t *testing.T) {
	p1 := Regular(1, grid.AllDirs)
	stuck := Regular(2, grid.NoDirs.With(grid.North).With(grid.East).With(grid.West))
	b := newTestBoard(3, 5, nil, nil)
	setColumn(b, 1, p1, Empty(), stuck, Empty(), p1)

	moves := b.Trickle()

	// 不可南移的 piece 擋住整段:它自己不掉,上方的 piece 只能
	// 落到它頭上,下方的空格維持空格。
	assertMoves(t, moves, []buf.Move{
		{From: grid.P(1, 4), To: grid.P(1, 3)},
	})
	assertPieces(t, b, map[grid.Pos]Piece{
		grid.P(1, 0): p1,
		grid.P(1, 1): Empty(),
		grid.P(1, 2): stuck,
		grid.P(1, 3): p1,
		grid.P(1, 4): Empty(),
	})
}

func TestTrickleColumnsThenDiagonals(t *testing.T) {
	p1 := Regular(1, grid.AllDirs)
	b := newTestBoard(16, 16, nil, nil)
	setColumn(b, 0, p1, Empty(), Empty(), Empty(), Empty(), Empty())
	setColumn(b, 1, p1, Empty(), p1, Empty(), Empty(), p1)
	setColumn(b, 2, Empty(), Empty(), Empty(), p1, Empty(), p1)
	setColumn(b, 3, Empty(), Empty(), Empty(), Empty(), p1, Empty())

	moves := b.Trickle()

	// 先逐行壓實（x 由小到大,行內由下而上）,再做斜向擴散。
	assertMoves(t, moves, []buf.Move{
		{From: grid.P(1, 2), To: grid.P(1, 1)},
		{From: grid.P(1, 5), To: grid.P(1, 2)},
		{From: grid.P(2, 3), To: grid.P(2, 0)},
		{From: grid.P(2, 5), To: grid.P(2, 1)},
		{From: grid.P(3, 4), To: grid.P(3, 0)},
		{From: grid.P(1, 2), To: grid.P(0, 1)},
	})
	assertPieces(t, b, map[grid.Pos]Piece{
		grid.P(0, 0): p1,
		grid.P(0, 1): p1,
		grid.P(1, 0): p1,
		grid.P(1, 1): p1,
		grid.P(1, 2): Empty(),
		grid.P(2, 0): p1,
		grid.P(2, 1): p1,
		grid.P(3, 0): p1,
	})
	assertSettled(t, b)
}

func TestTrickleTallTowerCascade(t *testing.T) {
	p1 := Regular(1, grid.AllDirs)
	b := newTestBoard(16, 16, nil, nil)
	setColumn(b, 0, p1, Empty(), Empty(), Empty(), Empty(), Empty())
	setColumn(b, 1, p1, Empty(), Empty(), Empty(), Empty(), Empty())
	setColumn(b, 2, Empty(), Empty(), p1, p1, p1, p1)
	setColumn(b, 3, Empty(), Empty(), Empty(), Empty(), p1, Empty())

	moves := b.Trickle()

	// 高塔往兩側塌:同一顆 piece 在擴散階段可以連動多步。
	assertMoves(t, moves, []buf.Move{
		{From: grid.P(2, 2), To: grid.P(2, 0)},
		{From: grid.P(2, 3), To: grid.P(2, 1)},
		{From: grid.P(2, 4), To: grid.P(2, 2)},
		{From: grid.P(2, 5), To: grid.P(2, 3)},
		{From: grid.P(3, 4), To: grid.P(3, 0)},
		{From: grid.P(2, 2), To: grid.P(1, 1)},
		{From: grid.P(2, 3), To: grid.P(2, 2)},
		{From: grid.P(2, 2), To: grid.P(3, 1)},
	})
	assertPieces(t, b, map[grid.Pos]Piece{
		grid.P(0, 0): p1,
		grid.P(1, 0): p1,
		grid.P(1, 1): p1,
		grid.P(2, 0): p1,
		grid.P(2, 1): p1,
		grid.P(3, 0): p1,
		grid.P(3, 1): p1,
		grid.P(2, 2): Empty(),
		grid.P(2, 3): Empty(),
	})
	assertSettled(t, b)
}

func TestTrickleBlockingWallShelf(t *testing.T) {
	p1 := Regular(1, grid.AllDirs)
	b := newTestBoard(16, 16, nil, nil)
	setColumn(b, 0, Empty(), Empty(), Empty(), Wall(), Empty(), p1)
	setColumn(b, 1, Empty(), Empty(), p1, Wall(), Empty(), p1)
	setColumn(b, 2, Empty(), Empty(), Empty(), Wall(), p1, p1)
	setColumn(b, 3, Empty(), p1, Empty(), Wall(), Empty(), Empty())

	moves := b.Trickle()

	// Wall 橫樑把每行切成上下兩段,piece 不會穿過去。
	assertMoves(t, moves, []buf.Move{
		{From: grid.P(0, 5), To: grid.P(0, 4)},
		{From: grid.P(1, 2), To: grid.P(1, 0)},
		{From: grid.P(1, 5), To: grid.P(1, 4)},
		{From: grid.P(3, 1), To: grid.P(3, 0)},
		{From: grid.P(2, 5), To: grid.P(3, 4)},
	})
	assertPieces(t, b, map[grid.Pos]Piece{
		grid.P(0, 3): Wall(),
		grid.P(0, 4): p1,
		grid.P(0, 5): Empty(),
		grid.P(1, 0): p1,
		grid.P(1, 4): p1,
		grid.P(2, 3): Wall(),
		grid.P(2, 4): p1,
		grid.P(2, 5): Empty(),
		grid.P(3, 0): p1,
		grid.P(3, 4): p1,
	})
	assertSettled(t, b)
}

func TestAddAndTrickle(t *testing.T) {
	p1 := Regular(1, grid.AllDirs)
	b := newTestBoard(3, 3, nil, nil)
	setColumn(b, 1, Empty(), Empty(), Empty())

	moves := b.AddAndTrickle(grid.P(1, 2), p1)

	assertMoves(t, moves, []buf.Move{
		{From: grid.P(1, 2), To: grid.P(1, 0)},
	})
	assertPieces(t, b, map[grid.Pos]Piece{
		grid.P(1, 0): p1,
		grid.P(1, 2): Empty(),
	})
}

func TestTrickleFeedsMatchQueue(t *testing.T) {
	row2 := mustPattern(t, "row2", 1, []grid.Pos{grid.P(0, 0), grid.P(1, 0)}, 2)
	b := newTestBoard(3, 3, []*match.Pattern{row2}, nil)

	p1 := Regular(1, grid.AllDirs)
	b.SetPiece(grid.P(0, 0), p1)
	setColumn(b, 1, Empty(), p1)

	b.Trickle()

	m := b.NextMatch()
	if m == nil {
		t.Fatalf("expected match formed by gravity")
	}
	if m.Pattern != row2 {
		t.Fatalf("expected pattern %q, got %q", row2.Name(), m.Pattern.Name())
	}
}
