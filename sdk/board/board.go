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

// Package board 是 matchlab 的規則核心：持有盤面狀態、在可插拔的
// 換位規則下執行 set/swap、以變動隊列驅動增量配對檢查，並模擬重力
// （trickle）讓 piece 落入空格。
//
// 三件事共用同一份可變狀態，set/swap/match/trickle 任意交錯呼叫都
// 必須保持一致——這是本包真正的工程問題，而不是任何單一演算法。
//
// 並發語意：單執行緒、同步、無內部鎖。每個操作跑完才回傳，期間
// 不讓出。要併發存取的呼叫端必須在外部自行序列化（見 Session）。
package board

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zintix-labs/matchlab/sdk/buf"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/sdk/match"
	"github.com/zintix-labs/matchlab/spec"
)

// View 提供換位規則唯讀的盤面存取。
//
// 規則透過介面拿到的就只有這些：不能變異狀態（以介面強制，
// 不是靠約定）。
type View interface {
	// Cols 回傳盤面寬度。
	Cols() int
	// Rows 回傳盤面高度。
	Rows() int
	// Piece 回傳指定座標的 piece；座標出界會 panic。
	Piece(p grid.Pos) Piece
}

// Rule 是換位規則：回傳 true 代表允許交換兩個座標的 piece。
//
// 規則鏈由左至右短路求值，內建的可移動方向規則永遠排第一；
// 呼叫端提供的規則接在其後，便宜的檢查應排前面。
type Rule func(v View, first, second grid.Pos) bool

// Board 持有零或多個 piece，代表遊戲的當前盤面。
//
// 預設整張盤是 Wall，開局與每次配對後由呼叫端自行補盤。
// 配對偵測不掃全盤：每次 set/swap/trickle 觸碰到的座標會被標記，
// NextMatch 只檢查被標記過的座標。
//
// 預設唯一的換位限制是方向可移動性；**這代表相距超過一格的 piece
// 預設也能交換**。缺乏預設限制是刻意的，讓各遊戲實作自己的規則。
type Board struct {
	state    *State
	patterns []*match.Pattern
	rules    []Rule
	moveLog  *buf.MoveLog
}

// New 建立棋盤。
//
//   - st: 初始狀態。全新對局用 NewState；讀檔對局用 ImportState。
//   - patterns: 配對圖樣，內部依 Rank 由大到小排序；同 Rank 順序不保證。
//   - rules: 換位規則，依提供順序接在內建規則之後執行。
func New(st *State, patterns []*match.Pattern, rules []Rule) *Board {
	sorted := make([]*match.Pattern, len(patterns))
	copy(sorted, patterns)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Rank() > sorted[j].Rank()
	})

	chain := make([]Rule, 0, len(rules)+1)
	chain = append(chain, arePiecesMovable)
	chain = append(chain, rules...)

	return &Board{
		state:    st,
		patterns: sorted,
		rules:    chain,
		moveLog:  buf.NewMoveLog(),
	}
}

// State 回傳可序列化的當前狀態。變異請走 Board 的方法。
func (b *Board) State() *State {
	return b.state
}

// Cols 回傳盤面寬度。
func (b *Board) Cols() int { return b.state.cols }

// Rows 回傳盤面高度。
func (b *Board) Rows() int { return b.state.rows }

// Piece 取得指定座標的 piece。預設整張盤都是 Wall。
//
// 座標出界會 panic：這是呼叫端合約違反，不是可恢復錯誤。
func (b *Board) Piece(pos grid.Pos) Piece {
	if !b.within(pos) {
		panic(fmt.Sprintf("matchlab/board: get piece out of bounds: %v", pos))
	}
	if b.state.empties.IsSet(pos) {
		return Empty()
	}
	if t := b.typeAt(pos); t != 0 {
		return Regular(t, b.movableDirs(pos))
	}
	return Wall()
}

// SetPiece 無條件覆寫指定座標並回傳原本的 piece。
// 不跑規則鏈，且永遠把座標標記待配對檢查。
//
// 座標出界會 panic。
func (b *Board) SetPiece(pos grid.Pos, p Piece) Piece {
	if !b.within(pos) {
		panic(fmt.Sprintf("matchlab/board: set piece out of bounds: %v", pos))
	}
	if p.Kind == KindRegular && p.Type <= 0 {
		panic(fmt.Sprintf("matchlab/board: set regular piece with invalid type: %d", p.Type))
	}

	b.state.changed.push(pos)
	old := b.Piece(pos)

	if t := b.typeAt(pos); t != 0 {
		b.state.types[t].Unset(pos)
	}

	switch p.Kind {
	case KindRegular:
		g, ok := b.state.types[p.Type]
		if !ok {
			g = grid.NewBitGrid(b.state.cols, b.state.rows)
			b.state.types[p.Type] = g
		}
		g.Set(pos)
		b.state.empties.Unset(pos)
		b.setMovableDirs(pos, p.Movable)
	case KindEmpty:
		b.state.empties.Set(pos)
		b.setMovableDirs(pos, grid.AllDirs)
	case KindWall:
		b.state.empties.Unset(pos)
		b.setMovableDirs(pos, grid.NoDirs)
	}

	return old
}

// SwapPieces 嘗試交換兩個座標的 piece。任一規則回傳 false 則狀態
// 不變並回傳 false；全數通過則無條件交換並回傳 true。
//
// 與自己交換永遠成功，但對狀態是 no-op，也不標記配對檢查
// （沒有變動）。兩個座標的順序不影響結果。
//
// 任一座標出界會 panic。
func (b *Board) SwapPieces(first, second grid.Pos) bool {
	if !b.within(first) || !b.within(second) {
		panic(fmt.Sprintf("matchlab/board: swap piece out of bounds: %v with %v", first, second))
	}

	for _, rule := range b.rules {
		if !rule(b, first, second) {
			return false
		}
	}

	b.swapAlways(first, second)
	return true
}

// NextMatch 取得下一個配對。較早變動的座標先被檢查；
// 檢查永遠針對「當前」盤面，不是座標進隊當下的快照。
//
// 變動過但沒有形成配對的座標會被跳過。不論有沒有命中，
// 出隊都是永久的——同一座標被標記幾次，就獨立檢查幾次。
//
// 隊列耗盡且沒有配對時回傳 nil（正常的「暫無配對」，不是錯誤）。
func (b *Board) NextMatch() *match.Match {
	for {
		pos, ok := b.state.changed.pop()
		if !ok {
			return nil
		}
		for _, p := range b.patterns {
			g, ok := b.state.types[p.PieceType()]
			if !ok {
				continue
			}
			if hit, found := match.Find(g, p, pos); found {
				return &match.Match{Pattern: p, ChangedPos: pos, Positions: hit}
			}
		}
	}
}

// ============================================================
// ** 以下內部方法 **
// ============================================================

// typeAt 回傳座標上 Regular piece 的 type；空格或 Wall 回傳 0。
// 依不變量，一格最多被一個 type 遮罩設起。
func (b *Board) typeAt(pos grid.Pos) spec.PieceID {
	for t, g := range b.state.types {
		if g.IsSet(pos) {
			return t
		}
	}
	return 0
}

// movableDirs 收集座標上四個方向遮罩組出來的方向集合。
func (b *Board) movableDirs(pos grid.Pos) grid.DirSet {
	var dirs grid.DirSet
	for d := grid.Direction(0); d < grid.DirCount; d++ {
		if b.state.movable[d].IsSet(pos) {
			dirs = dirs.With(d)
		}
	}
	return dirs
}

// setMovableDirs 覆寫座標上四個方向遮罩。
func (b *Board) setMovableDirs(pos grid.Pos, dirs grid.DirSet) {
	for d := grid.Direction(0); d < grid.DirCount; d++ {
		if dirs.Has(d) {
			b.state.movable[d].Set(pos)
		} else {
			b.state.movable[d].Unset(pos)
		}
	}
}

// swapAlways 無視規則鏈交換兩個座標（距離不限，永遠成功）。
// 兩座標不同時才標記配對檢查。
func (b *Board) swapAlways(first, second grid.Pos) {
	if first == second {
		return
	}

	b.state.changed.push(first)
	b.state.changed.push(second)

	b.state.empties.Swap(first, second)
	for d := range b.state.movable {
		b.state.movable[d].Swap(first, second)
	}

	ft := b.typeAt(first)
	st := b.typeAt(second)

	// 同 type 的交換做兩次位元交換會互相抵銷，直接跳過
	if ft != st {
		if ft != 0 {
			b.state.types[ft].Swap(first, second)
		}
		if st != 0 {
			b.state.types[st].Swap(first, second)
		}
	}
}

func (b *Board) within(pos grid.Pos) bool {
	return pos.X >= 0 && pos.X < b.state.cols && pos.Y >= 0 && pos.Y < b.state.rows
}

// ============================================================
// ** 內建換位規則 **
// ============================================================

// arePiecesMovable 是規則鏈的第一條：兩個 piece 都必須在自己要
// 前往的方向上可移動。軸上沒有位移分量就視為可動。
func arePiecesMovable(v View, first, second grid.Pos) bool {
	return isMovable(v, first, second) && isMovable(v, second, first)
}

func isMovable(v View, from, to grid.Pos) bool {
	return isVerticallyMovable(v, from, to) && isHorizontallyMovable(v, from, to)
}

func isVerticallyMovable(v View, from, to grid.Pos) bool {
	p := v.Piece(from)
	if to.Y > from.Y {
		return p.IsMovable(grid.North)
	} else if to.Y < from.Y {
		return p.IsMovable(grid.South)
	}
	return true
}

func isHorizontallyMovable(v View, from, to grid.Pos) bool {
	p := v.Piece(from)
	if to.X > from.X {
		return p.IsMovable(grid.East)
	} else if to.X < from.X {
		return p.IsMovable(grid.West)
	}
	return true
}

// String 以文字傾印盤面：由上而下逐列、'#' 是 Wall、'.' 是 Empty、
// 數字是 Regular 的 type id。除錯/渲染外掛用，不屬於核心合約。
func (b *Board) String() string {
	var sb strings.Builder
	for y := b.state.rows - 1; y >= 0; y-- {
		for x := 0; x < b.state.cols; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			switch p := b.Piece(grid.P(x, y)); p.Kind {
			case KindWall:
				sb.WriteByte('#')
			case KindEmpty:
				sb.WriteByte('.')
			default:
				sb.WriteString(strconv.Itoa(int(p.Type)))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
