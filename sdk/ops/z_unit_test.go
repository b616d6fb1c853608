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

package ops

import (
	"testing"

	"github.com/zintix-labs/matchlab/sdk/board"
	"github.com/zintix-labs/matchlab/sdk/core"
	"github.com/zintix-labs/matchlab/sdk/gen"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

func newTestBoard(t *testing.T, cols, rows int) *board.Board {
	t.Helper()
	return board.New(board.NewState(cols, rows), nil, nil)
}

func newTestGenerator(t *testing.T, weights ...int) *gen.PieceGenerator {
	t.Helper()
	names := []string{"red", "green", "blue"}
	defs := make([]spec.PieceDef, len(weights))
	for i, w := range weights {
		defs[i] = spec.PieceDef{Name: names[i], Weight: w}
	}
	g, err := gen.NewPieceGenerator(
		core.New(core.Default().New(17)),
		&spec.PieceSetting{PieceUsed: defs},
	)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	return g
}

func TestClearCountsRegularOnly(t *testing.T) {
	b := newTestBoard(t, 3, 3)
	b.SetPiece(grid.P(0, 0), board.Regular(1, grid.AllDirs))
	b.SetPiece(grid.P(1, 0), board.Regular(1, grid.AllDirs))
	b.SetPiece(grid.P(2, 0), board.Wall())

	hits := []grid.Pos{grid.P(0, 0), grid.P(1, 0), grid.P(2, 0), grid.P(0, 1)}
	if got := Clear(b, hits); got != 2 {
		t.Fatalf("expected 2 cleared, got %d", got)
	}
	if b.Piece(grid.P(0, 0)).Kind != board.KindEmpty {
		t.Fatalf("expected (0,0) cleared")
	}
	if b.Piece(grid.P(2, 0)).Kind != board.KindWall {
		t.Fatalf("wall must survive clear")
	}
}

func TestClearDuplicateHitsCountedOnce(t *testing.T) {
	b := newTestBoard(t, 2, 2)
	b.SetPiece(grid.P(0, 0), board.Regular(1, grid.AllDirs))

	hits := []grid.Pos{grid.P(0, 0), grid.P(0, 0), grid.P(0, 0)}
	if got := Clear(b, hits); got != 1 {
		t.Fatalf("expected 1 cleared for duplicate hits, got %d", got)
	}
}

func TestFillCoversAllEmpties(t *testing.T) {
	b := newTestBoard(t, 3, 3)
	b.SetPiece(grid.P(1, 1), board.Wall())
	for i := 0; i < 9; i++ {
		pos := grid.P(i%3, i/3)
		if pos != grid.P(1, 1) {
			b.SetPiece(pos, board.Empty())
		}
	}

	g := newTestGenerator(t, 1, 1, 1)
	fills := Fill(b, g, nil)
	if len(fills) != 8 {
		t.Fatalf("expected 8 fills, got %d", len(fills))
	}

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			p := b.Piece(grid.P(x, y))
			if x == 1 && y == 1 {
				if p.Kind != board.KindWall {
					t.Fatalf("wall overwritten at (1,1)")
				}
				continue
			}
			if p.Kind != board.KindRegular {
				t.Fatalf("cell (%d,%d) not filled: %v", x, y, p)
			}
		}
	}
}

func TestFillOrderIsBottomUpRowMajor(t *testing.T) {
	b := newTestBoard(t, 2, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			b.SetPiece(grid.P(x, y), board.Empty())
		}
	}

	g := newTestGenerator(t, 1, 1, 1)
	fills := Fill(b, g, nil)
	want := []grid.Pos{grid.P(0, 0), grid.P(1, 0), grid.P(0, 1), grid.P(1, 1)}
	if len(fills) != len(want) {
		t.Fatalf("expected %d fills, got %d", len(want), len(fills))
	}
	for i, f := range fills {
		if f.Pos != want[i] {
			t.Fatalf("fill %d at %v, want %v", i, f.Pos, want[i])
		}
	}
}

func TestFillSkipsOccupiedCells(t *testing.T) {
	b := newTestBoard(t, 2, 2)
	b.SetPiece(grid.P(0, 0), board.Regular(2, grid.AllDirs))
	b.SetPiece(grid.P(1, 0), board.Empty())

	g := newTestGenerator(t, 1)
	fills := Fill(b, g, nil)
	if len(fills) != 1 || fills[0].Pos != (grid.P(1, 0)) {
		t.Fatalf("unexpected fills: %v", fills)
	}
	if got := b.Piece(grid.P(0, 0)).Type; got != 2 {
		t.Fatalf("occupied cell overwritten, type %d", got)
	}
}

func TestFillReusesBuffer(t *testing.T) {
	b := newTestBoard(t, 2, 1)
	b.SetPiece(grid.P(0, 0), board.Empty())
	b.SetPiece(grid.P(1, 0), board.Empty())

	g := newTestGenerator(t, 1)
	buf := Fill(b, g, nil)
	if len(buf) != 2 {
		t.Fatalf("expected 2 fills, got %d", len(buf))
	}

	// 第二輪重用同一切片
	b.SetPiece(grid.P(0, 0), board.Empty())
	buf = Fill(b, g, buf[:0])
	if len(buf) != 1 || buf[0].Pos != grid.P(0, 0) {
		t.Fatalf("unexpected fills on reuse: %v", buf)
	}
}

func TestFillMatchableAfterwards(t *testing.T) {
	b := newTestBoard(t, 3, 1)
	for x := 0; x < 3; x++ {
		b.SetPiece(grid.P(x, 0), board.Empty())
	}

	// 單一 piece type，必然補成一整排同色
	g := newTestGenerator(t, 1)
	Fill(b, g, nil)
	for x := 0; x < 3; x++ {
		if b.Piece(grid.P(x, 0)).Type != 1 {
			t.Fatalf("expected type 1 at (%d,0)", x)
		}
	}
}
