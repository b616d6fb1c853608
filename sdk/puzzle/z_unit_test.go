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

package puzzle

import (
	"testing"

	"github.com/zintix-labs/matchlab/sdk/board"
	"github.com/zintix-labs/matchlab/sdk/buf"
	"github.com/zintix-labs/matchlab/sdk/core"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

const testBoardYAML = `
game_name: demo_board
game_id: 1001
rule_key: classic_test
grid_setting:
  columns: 3
  rows: 3
piece_setting:
  piece_used:
    - name: red
      weight: 1
    - name: green
      weight: 1
    - name: blue
      weight: 1
pattern_setting:
  pattern_used:
    - name: row3_red
      piece: red
      rank: 3
      spaces: [[0, 0], [1, 0], [2, 0]]
layout_setting:
  rows:
    - "green blue green"
    - "red red blue"
    - "blue green red"
`

// testLogic 是最小可用的邏輯模組：換位 → 消解連鎖 → 結束。
type testLogic struct{}

func (l *testLogic) GetResult(r *buf.PlayRequest, g *Game) *buf.PlayResult {
	res := g.StartNewPlay(r)
	res.Swapped = g.Board.SwapPieces(r.From, r.To)
	if res.Swapped {
		ResolveCascades(g, res)
	}
	res.End()
	return res
}

func newTestRegistry(t *testing.T) *LogicRegistry {
	t.Helper()
	reg := NewLogicRegistry()
	err := reg.Register("classic_test", func(g *Game) (GameLogic, error) {
		return &testLogic{}, nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return reg
}

func newTestGame(t *testing.T, seed int64) *Game {
	t.Helper()
	bs, err := spec.GetBoardSettingByYAML([]byte(testBoardYAML))
	if err != nil {
		t.Fatalf("board setting: %v", err)
	}
	g, err := NewGame(bs, newTestRegistry(t), core.New(core.Default().New(seed)), false)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

func TestNewGameAppliesLayout(t *testing.T) {
	g := newTestGame(t, 1)

	// layout 最上列 "green blue green" 對應 y=2
	if got := g.Board.Piece(grid.P(0, 2)); got.Kind != board.KindRegular || got.Type != 2 {
		t.Fatalf("expected green at (0,2), got %v", got)
	}
	if got := g.Board.Piece(grid.P(2, 0)); got.Type != 1 {
		t.Fatalf("expected red at (2,0), got %v", got)
	}
	// 開局盤面必須已無待檢配對
	if m := g.Board.NextMatch(); m != nil {
		t.Fatalf("fresh board has a pending match: %v", m)
	}
}

func TestGetResultSwapAndCascade(t *testing.T) {
	g := newTestGame(t, 2)

	// (2,1)=blue 與 (2,0)=red 互換後 y=1 列成為 red red red
	res := g.GetResult(&buf.PlayRequest{From: grid.P(2, 1), To: grid.P(2, 0)})
	if !res.Swapped {
		t.Fatalf("expected swap to pass")
	}
	if !res.IsEnd {
		t.Fatalf("expected result marked end")
	}
	if res.Cascades() < 1 {
		t.Fatalf("expected at least one cascade step")
	}

	first := res.Steps[0]
	if first.Pattern != "row3_red" || first.Piece != 1 {
		t.Fatalf("unexpected first step: %+v", first)
	}
	hits := res.StepHits(0)
	want := map[grid.Pos]bool{grid.P(0, 1): true, grid.P(1, 1): true, grid.P(2, 1): true}
	for _, h := range hits {
		if !want[h] {
			t.Fatalf("unexpected hit %v", h)
		}
	}
	if res.TotalCleared < 3 {
		t.Fatalf("expected at least 3 cleared, got %d", res.TotalCleared)
	}

	// 消解結束後盤面必須穩定
	if m := g.Board.NextMatch(); m != nil {
		t.Fatalf("board not settled after play: %v", m)
	}
	// 盤面必須補滿（無 Empty）
	for y := 0; y < g.Board.Rows(); y++ {
		for x := 0; x < g.Board.Cols(); x++ {
			if g.Board.Piece(grid.P(x, y)).Kind == board.KindEmpty {
				t.Fatalf("cell (%d,%d) left empty", x, y)
			}
		}
	}
}

func TestGetResultRejectedSwapNoSteps(t *testing.T) {
	g := newTestGame(t, 3)

	// (0,2)=green 與 (1,2)=blue 互換不會形成任何配對，但換位本身放行
	res := g.GetResult(&buf.PlayRequest{From: grid.P(0, 2), To: grid.P(1, 2)})
	if !res.Swapped {
		t.Fatalf("expected swap allowed")
	}
	if res.Cascades() != 0 || res.TotalCleared != 0 {
		t.Fatalf("expected no cascades, got %d steps %d cleared", res.Cascades(), res.TotalCleared)
	}
}

func TestGameDeterministicAcrossSeeds(t *testing.T) {
	g1 := newTestGame(t, 7)
	g2 := newTestGame(t, 7)

	r := &buf.PlayRequest{From: grid.P(2, 1), To: grid.P(2, 0)}
	res1 := g1.GetResult(r)
	res2 := g2.GetResult(r)

	if res1.TotalCleared != res2.TotalCleared || res1.Cascades() != res2.Cascades() {
		t.Fatalf("same seed diverged: %d/%d vs %d/%d",
			res1.TotalCleared, res1.Cascades(), res2.TotalCleared, res2.Cascades())
	}
	if g1.Board.String() != g2.Board.String() {
		t.Fatalf("same seed produced different boards")
	}
}

func TestResetBoardRestoresLayout(t *testing.T) {
	g := newTestGame(t, 5)
	g.GetResult(&buf.PlayRequest{From: grid.P(2, 1), To: grid.P(2, 0)})

	g.ResetBoard()
	if got := g.Board.Piece(grid.P(0, 2)); got.Type != 2 {
		t.Fatalf("expected layout green at (0,2) after reset, got %v", got)
	}
	if m := g.Board.NextMatch(); m != nil {
		t.Fatalf("reset board has pending match: %v", m)
	}
}

func TestLogicRegistryDuplicate(t *testing.T) {
	reg := NewLogicRegistry()
	b := func(g *Game) (GameLogic, error) { return &testLogic{}, nil }
	if err := reg.Register("a", b); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := reg.Register("a", b); err == nil {
		t.Fatalf("expected duplicate register error")
	}
	if !reg.IsExist("a") || reg.IsExist("b") {
		t.Fatalf("unexpected registry contents")
	}
}

func TestLogicRegistryBuildUnknown(t *testing.T) {
	reg := NewLogicRegistry()
	if _, err := reg.Build("missing", nil); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestMergeLogicRegistry(t *testing.T) {
	b := func(g *Game) (GameLogic, error) { return &testLogic{}, nil }

	r1 := NewLogicRegistry()
	_ = r1.Register("a", b)
	r2 := NewLogicRegistry()
	_ = r2.Register("b", b)

	merged, err := MergeLogicRegistry(r1, nil, r2)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !merged.IsExist("a") || !merged.IsExist("b") {
		t.Fatalf("merged registry missing keys")
	}

	r3 := NewLogicRegistry()
	_ = r3.Register("a", b)
	if _, err := MergeLogicRegistry(r1, r3); err == nil {
		t.Fatalf("expected duplicate key error on merge")
	}
}
