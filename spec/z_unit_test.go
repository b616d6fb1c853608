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

package spec_test

import (
	"testing"

	"github.com/zintix-labs/matchlab/spec"
)

const demoYAML = `
game_name: unit_board
game_id: 7
rule_key: classic
grid_setting:
  columns: 3
  rows: 2
piece_setting:
  piece_used:
    - name: red
      weight: 10
    - name: stone
      movable: []
      weight: 0
pattern_setting:
  pattern_used:
    - name: red_row
      piece: red
      rank: 1
      spaces: [[0, 0], [1, 0], [2, 0]]
layout_setting:
  rows:
    - "# . red"
    - ". . ."
fixed:
  adjacent_only: true
`

func TestGetBoardSettingByYAML(t *testing.T) {
	bs, err := spec.GetBoardSettingByYAML([]byte(demoYAML))
	if err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if bs.GameName != "unit_board" || bs.GameID != 7 || bs.RuleKey != "classic" {
		t.Fatalf("header mismatch: %+v", bs)
	}
	if bs.GridSetting.CellCount != 6 {
		t.Fatalf("cell count = %d, want 6", bs.GridSetting.CellCount)
	}
	if bs.PieceSetting.PieceCount != 2 {
		t.Fatalf("piece count = %d, want 2", bs.PieceSetting.PieceCount)
	}
	id, ok := bs.PieceSetting.IDByName("RED")
	if !ok || id != 1 {
		t.Fatalf("IDByName(RED) = %d, %v", id, ok)
	}
	if got := bs.PieceSetting.NameByID(2); got != "stone" {
		t.Fatalf("NameByID(2) = %q", got)
	}
	if w := bs.PieceSetting.Weights; w[0] != 10 || w[1] != 0 {
		t.Fatalf("weights = %v", w)
	}
	if len(bs.Patterns.PatternUsed) != 1 {
		t.Fatalf("pattern count = %d", len(bs.Patterns.PatternUsed))
	}
	if bs.Patterns.PatternUsed[0].PieceID != 1 {
		t.Fatalf("pattern piece id = %d, want 1", bs.Patterns.PatternUsed[0].PieceID)
	}
}

func TestLayoutCellsBottomUp(t *testing.T) {
	bs, err := spec.GetBoardSettingByYAML([]byte(demoYAML))
	if err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if !bs.Layout.HasLayout() {
		t.Fatal("expected layout")
	}
	// 第一列（由上而下）對應盤面 y=1
	top := bs.Layout.Cells[1*3+0]
	if top.Kind != spec.CellWall {
		t.Fatalf("cell (0,1) kind = %d, want wall", top.Kind)
	}
	piece := bs.Layout.Cells[1*3+2]
	if piece.Kind != spec.CellPiece || piece.Piece != 1 {
		t.Fatalf("cell (2,1) = %+v, want red piece", piece)
	}
	bottom := bs.Layout.Cells[0*3+1]
	if bottom.Kind != spec.CellEmpty {
		t.Fatalf("cell (1,0) kind = %d, want empty", bottom.Kind)
	}
}

func TestLayoutRowMismatch(t *testing.T) {
	bad := `
game_name: bad_board
game_id: 1
rule_key: classic
grid_setting:
  columns: 2
  rows: 2
piece_setting:
  piece_used:
    - name: red
      weight: 1
pattern_setting:
  pattern_used:
    - name: red_pair
      piece: red
      rank: 1
      spaces: [[0, 0], [1, 0]]
layout_setting:
  rows:
    - ". ."
`
	if _, err := spec.GetBoardSettingByYAML([]byte(bad)); err == nil {
		t.Fatal("expected error on layout row count mismatch")
	}
}

func TestParseDirMask(t *testing.T) {
	m, err := spec.ParseDirMask(nil)
	if err != nil || m != spec.AllDirMask {
		t.Fatalf("empty list = %04b, err %v", m, err)
	}
	m, err = spec.ParseDirMask([]string{"North", " west "})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m != 0b1001 {
		t.Fatalf("north|west = %04b", m)
	}
	if _, err = spec.ParseDirMask([]string{"up"}); err == nil {
		t.Fatal("expected error on unknown direction")
	}
}

func TestDecodeFixed(t *testing.T) {
	bs, err := spec.GetBoardSettingByYAML([]byte(demoYAML))
	if err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	type fixedCfg struct {
		AdjacentOnly bool `yaml:"adjacent_only"`
	}
	out := new(fixedCfg)
	if err := spec.DecodeFixed(bs, out); err != nil {
		t.Fatalf("decode fixed: %v", err)
	}
	if !out.AdjacentOnly {
		t.Fatal("adjacent_only should be true")
	}

	// 未知欄位要報錯（嚴格模式）
	type wrongCfg struct {
		Unrelated int `yaml:"unrelated"`
	}
	if err := spec.DecodeFixed(bs, new(wrongCfg)); err == nil {
		t.Fatal("expected error on unknown fixed field")
	}
}
