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

package spec

import (
	"fmt"
	"strings"

	"github.com/zintix-labs/matchlab/errs"
)

// Layout token 的固定寫法。
const (
	LayoutWallToken  = "#"
	LayoutEmptyToken = "."
)

// CellKind 描述 layout 中一格的內容分類。
type CellKind uint8

const (
	CellWall CellKind = iota
	CellEmpty
	CellPiece
)

// LayoutCell 是解析後的一格：Kind 為 CellPiece 時 Piece 有效。
type LayoutCell struct {
	Kind  CellKind
	Piece PieceID
}

// LayoutSetting 描述可選的初始盤面。
//
// Rows 由上往下列出（閱讀順序），每列是以空白分隔的 token：
// "#" 是 Wall、"." 是 Empty、其餘視為 piece 名稱。
// 留空代表不預填盤面（全 Wall，跟 zero-value 的 State 一致）。
type LayoutSetting struct {
	Rows []string `yaml:"rows" json:"rows"`

	// Cells 是解析後的盤面，row-major、由下而上（index = y*cols + x），
	// 與 Board 的座標系一致。
	Cells    []LayoutCell `yaml:"-" json:"-"`
	initFlag bool
}

// HasLayout 回傳設定檔是否提供了初始盤面。
func (ls *LayoutSetting) HasLayout() bool {
	return len(ls.Rows) > 0
}

// Init 解析 layout 列，檢查尺寸與 piece 名稱。
func (ls *LayoutSetting) Init(gs *GridSetting, ps *PieceSetting) error {
	// 檢查初始化旗標
	if ls.initFlag {
		return nil
	}
	if !ls.HasLayout() {
		ls.initFlag = true
		return nil
	}

	if len(ls.Rows) != gs.Rows {
		return errs.NewFatal(fmt.Sprintf("layout rows = %d, want %d", len(ls.Rows), gs.Rows))
	}

	ls.Cells = make([]LayoutCell, gs.CellCount)
	for rowIdx, row := range ls.Rows {
		tokens := strings.Fields(row)
		if len(tokens) != gs.Columns {
			return errs.NewFatal(fmt.Sprintf("layout row %d has %d tokens, want %d", rowIdx, len(tokens), gs.Columns))
		}
		// Rows 由上而下，盤面 y 由下而上
		y := gs.Rows - 1 - rowIdx
		for x, tok := range tokens {
			cell := LayoutCell{}
			switch tok {
			case LayoutWallToken:
				cell.Kind = CellWall
			case LayoutEmptyToken:
				cell.Kind = CellEmpty
			default:
				id, ok := ps.IDByName(tok)
				if !ok {
					return errs.NewFatal(fmt.Sprintf("layout row %d: unknown piece %q", rowIdx, tok))
				}
				cell.Kind = CellPiece
				cell.Piece = id
			}
			ls.Cells[y*gs.Columns+x] = cell
		}
	}

	// set 初始化旗標
	ls.initFlag = true
	return nil
}
