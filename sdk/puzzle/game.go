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
	"fmt"

	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/board"
	"github.com/zintix-labs/matchlab/sdk/buf"
	"github.com/zintix-labs/matchlab/sdk/core"
	"github.com/zintix-labs/matchlab/sdk/gen"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/sdk/match"
	"github.com/zintix-labs/matchlab/sdk/ops"
	"github.com/zintix-labs/matchlab/spec"
)

// Game 負責掌管單一盤面的生命週期：讀取設定、建立盤面與生成器、
// 串接邏輯並提供 play 入口。
type Game struct {
	Core         *core.Core
	BoardSetting *spec.BoardSetting
	BoardName    string
	GameId       spec.GID
	Board        *board.Board
	Gen          *gen.PieceGenerator
	PlayResult   *buf.PlayResult // Play結果緩衝
	IsSim        bool
	logic        GameLogic
	patterns     []*match.Pattern // 盤面重建時沿用
	rules        []board.Rule
	fillBuf      []buf.Fill // 補盤暫存，連鎖間重用
}

// ============================================================
// ** 創建遊戲實例 **
// ============================================================

// NewGame 建立 Game，使用呼叫端提供的 BoardSetting
func NewGame(bs *spec.BoardSetting, reg *LogicRegistry, core *core.Core, isSim bool) (*Game, error) {
	g := &Game{
		Core:         core,
		BoardName:    bs.GameName,
		GameId:       bs.GameID,
		BoardSetting: bs,
		IsSim:        isSim,
	}
	err := g.init(reg)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ============================================================
// ** 以下公開方法 **
// ============================================================

// GetResult 進行一次換位流程並回傳結果緩衝。
func (gh *Game) GetResult(req *buf.PlayRequest) *buf.PlayResult {
	return gh.logic.GetResult(req, gh)
}

// ResetResult 重置共享的 PlayResult 緩衝。
func (gh *Game) ResetResult() {
	gh.PlayResult.Reset()
}

// StartNewPlay 重置結果緩衝、設定本次換位座標，並取得可累積結果的 PlayResult 指標。
func (gh *Game) StartNewPlay(r *buf.PlayRequest) *buf.PlayResult {
	gh.ResetResult()
	gh.PlayResult.From = r.From
	gh.PlayResult.To = r.To
	return gh.PlayResult
}

// ResetBoard 把盤面恢復到設定檔描述的初始狀態。
//
// 有 layout 時逐格套用（Wall/指定 piece），留下的 Empty 交給生成器
// 補滿；沒有 layout 時整張盤隨機補滿。兩種路徑最後都會靜默消解
// 開局就成立的配對（不記錄任何步驟），讓玩家拿到的永遠是「穩定」盤面。
func (gh *Game) ResetBoard() {
	bs := gh.BoardSetting
	if bs.Layout.HasLayout() {
		gh.applyLayout()
	} else {
		for y := 0; y < gh.Board.Rows(); y++ {
			for x := 0; x < gh.Board.Cols(); x++ {
				gh.Board.SetPiece(grid.P(x, y), board.Empty())
			}
		}
	}
	gh.fillBoard()
	// 消解開局就成立的配對並清空檢查佇列
	gh.settleBoard()
}

// ExportBoardState 匯出當前盤面狀態（含檢查佇列），供存檔/斷線重連使用。
func (gh *Game) ExportBoardState() *board.StateExport {
	return gh.Board.State().Export()
}

// RestoreBoardState 以匯出資料重建盤面，沿用原本的圖樣與換位規則鏈。
//
// 尺寸必須與設定檔一致；不符視為拿錯存檔。
func (gh *Game) RestoreBoardState(e *board.StateExport) error {
	bs := gh.BoardSetting
	if e == nil {
		return errs.NewWarn("board snapshot required")
	}
	if e.Cols != bs.GridSetting.Columns || e.Rows != bs.GridSetting.Rows {
		return errs.NewWarn(fmt.Sprintf("board snapshot is %dx%d, setting wants %dx%d",
			e.Cols, e.Rows, bs.GridSetting.Columns, bs.GridSetting.Rows))
	}
	st, err := board.ImportState(e)
	if err != nil {
		return err
	}
	gh.Board = board.New(st, gh.patterns, gh.rules)
	return nil
}

// ============================================================
// ** 以下內部方法 **
// ============================================================

func (g *Game) init(reg *LogicRegistry) error {
	bs := g.BoardSetting

	// 建立可重用PlayResult緩衝
	g.PlayResult = buf.NewPlayResult(bs)

	// 建立補盤生成器
	pg, err := gen.NewPieceGenerator(g.Core, &bs.PieceSetting)
	if err != nil {
		return errs.Wrap(err, fmt.Sprintf("build generator failed: board=%q", g.BoardName))
	}
	g.Gen = pg

	// 建立介面（此時盤面尚未存在，builder 不可觸碰 g.Board）
	logic, err := reg.Build(bs.RuleKey, g)
	if err != nil {
		return errs.Wrap(err, fmt.Sprintf("build logic failed: board=%q rkey=%q", g.BoardName, bs.RuleKey))
	}
	g.logic = logic

	// 建立盤面：圖樣 + 邏輯模組提供的換位規則鏈
	patterns, err := match.FromSetting(&bs.Patterns)
	if err != nil {
		return errs.Wrap(err, fmt.Sprintf("build patterns failed: board=%q", g.BoardName))
	}
	var rules []board.Rule
	if rp, ok := logic.(RuleProvider); ok {
		rules = rp.SwapRules(g)
	}
	g.patterns = patterns
	g.rules = rules
	st := board.NewState(bs.GridSetting.Columns, bs.GridSetting.Rows)
	g.Board = board.New(st, patterns, rules)

	g.ResetBoard()
	return nil
}

// applyLayout 逐格套用設定檔的初始盤面。
func (g *Game) applyLayout() {
	bs := g.BoardSetting
	cols := bs.GridSetting.Columns
	for i, cell := range bs.Layout.Cells {
		pos := grid.P(i%cols, i/cols)
		switch cell.Kind {
		case spec.CellWall:
			g.Board.SetPiece(pos, board.Wall())
		case spec.CellEmpty:
			g.Board.SetPiece(pos, board.Empty())
		case spec.CellPiece:
			mask := bs.PieceSetting.MaskByID(cell.Piece)
			g.Board.SetPiece(pos, board.Regular(cell.Piece, grid.DirSet(mask)))
		}
	}
}

// fillBoard 把所有 Empty 格補上生成器抽出的棋子（列優先、自底向上）。
func (g *Game) fillBoard() {
	g.fillBuf = ops.Fill(g.Board, g.Gen, g.fillBuf[:0])
}

// settleBoard 消解盤面上既有的配對直到穩定，不記錄任何結果。
func (g *Game) settleBoard() {
	for {
		m := g.Board.NextMatch()
		if m == nil {
			return
		}
		ops.Clear(g.Board, m.Positions)
		g.Board.Trickle()
		g.fillBoard()
	}
}
