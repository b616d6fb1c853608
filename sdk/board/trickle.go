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
	"github.com/zintix-labs/matchlab/sdk/buf"
	"github.com/zintix-labs/matchlab/sdk/grid"
)

// Trickle 讓所有 piece 往下（含斜向）落入空格。
//
// 兩個階段，順序固定：先逐行壓縮（column compaction），再斜向擴散
// （diagonal diffusion）。斜落時左右都合法的「曖昧」情況偏好向左。
// piece 不會穿過正上下/正左右直接擋路的 Wall 或不可移動 piece，
// 但可以滑過只在斜角相鄰的 Wall。
//
// 不補新 piece。所有被移動的格子都會標記配對檢查。
//
// 回傳依執行順序排列的 (from, to) 移動列表，讓 piece 的落下過程
// 可以自然重播。移動列表是副產品：Trickle 回傳時盤面本身已經是
// 最終狀態。列表使用內部共用緩衝，下一次 Trickle/AddAndTrickle
// 前有效，要保留請先拷貝。
func (b *Board) Trickle() []buf.Move {
	b.moveLog.Reset()

	for x := 0; x < b.state.cols; x++ {
		b.trickleColumn(x)
	}
	b.trickleDiagonally()

	return b.moveLog.Moves()
}

// AddAndTrickle 先 SetPiece 再只對這一顆 piece 做 trickle，
// 適合單格變動時避免全盤重算。
//
// 放入 Empty 或 Wall 時行為等同 SetPiece（不會落下）。
// 回傳的移動列表語意與 Trickle 相同（共用緩衝）。
//
// 座標出界會 panic。
func (b *Board) AddAndTrickle(pos grid.Pos, p Piece) []buf.Move {
	b.SetPiece(pos, p)
	b.moveLog.Reset()
	b.tricklePiece(pos, false)
	return b.moveLog.Moves()
}

// trickleColumn 把單行內的 piece 往下壓，填補正下方的空格。
//
// 由下而上掃描，維護「目前看到的空格 y」FIFO：
//   - 空格：進隊。
//   - 不可往南的 piece（或 Wall）：清空隊列——它擋住上方所有
//     piece，這一輪不可能有人壓過它。
//   - 可往南的 piece 且隊列非空：換到最舊的空格、剛空出來的
//     y 進隊，並記錄移動。
func (b *Board) trickleColumn(x int) {
	var emptyRows []int
	head := 0

	for y := 0; y < b.state.rows; y++ {
		cur := grid.P(x, y)
		if b.state.empties.IsSet(cur) {
			emptyRows = append(emptyRows, y)
		} else if b.state.movable[grid.South].IsSet(cur) {
			if head < len(emptyRows) {
				fill := emptyRows[head]
				head++
				b.swapAlways(cur, grid.P(x, fill))
				emptyRows = append(emptyRows, y)
				b.moveLog.Record(grid.P(x, y), grid.P(x, fill))
			}
		} else {
			emptyRows = emptyRows[:0]
			head = 0
		}
	}
}

// trickleDiagonally 讓全盤 piece 斜向＋往下擴散到不能再動為止。
// 必須在所有行都做完 trickleColumn 之後呼叫。
func (b *Board) trickleDiagonally() {
	for y := 0; y < b.state.rows; y++ {
		for x := 0; x < b.state.cols; x++ {
			b.tricklePiece(grid.P(x, y), true)
		}
	}
}

// tricklePiece 讓單顆 piece 反覆「直落、再斜落」直到一整圈沒有
// 任何移動。這讓一顆 piece 能在一次呼叫內連續穿過多個空腔。
//
// checkAdj 控制是否做「鄰行自己的直落會不會先佔走這格」檢查：
// 全盤擴散時開啟（避免同一格在一輪內被填兩次），單顆落下
// （AddAndTrickle）時關閉。
func (b *Board) tricklePiece(pos grid.Pos, checkAdj bool) {
	if b.state.empties.IsSet(pos) {
		return
	}

	cur := pos
	for {
		prev := cur
		cur = b.tricklePieceDown(prev)
		if prev != cur {
			b.moveLog.Record(prev, cur)
		}

		prev = cur
		cur = b.tricklePieceDiagonally(prev, checkAdj)
		if prev == cur {
			break
		}
		b.moveLog.Record(prev, cur)
	}
}

// tricklePieceDiagonally 斜落一步：先試左下，不行再試右下。
// 回傳 piece 的新位置（沒動就是原位置）。
func (b *Board) tricklePieceDiagonally(pos grid.Pos, checkAdj bool) grid.Pos {
	moved := b.tricklePieceToSide(pos, true, checkAdj)
	if moved == pos {
		moved = b.tricklePieceToSide(pos, false, checkAdj)
	}
	return moved
}

// tricklePieceToSide 嘗試把 piece 往下一格＋橫向一格移動。
//
// 合法條件：目的地在盤內且是空格、piece 同時在南向與該橫向可移動，
// 而且（checkAdj 時）目的地正上方鄰行的格子不是一顆即將直落填進
// 來的可動 piece。
func (b *Board) tricklePieceToSide(cur grid.Pos, toWest bool, checkAdj bool) grid.Pos {
	if !b.canMoveDownDiagonally(cur, toWest) {
		return cur
	}

	emptyPos := moveDownDiagonally(cur, toWest)
	isEmpty := b.state.empties.IsSet(emptyPos)

	var horizDir *grid.BitGrid
	if toWest {
		horizDir = b.state.movable[grid.West]
	} else {
		horizDir = b.state.movable[grid.East]
	}
	vertDir := b.state.movable[grid.South]
	isMovable := horizDir.IsSet(cur) && vertDir.IsSet(cur)

	adjacentPos := grid.P(emptyPos.X, cur.Y)
	willAdjFill := checkAdj && vertDir.IsSet(adjacentPos) && !b.state.empties.IsSet(adjacentPos)

	if !isEmpty || !isMovable || willAdjFill {
		return cur
	}

	b.swapAlways(cur, emptyPos)
	return emptyPos
}

// tricklePieceDown 把 piece 沿著正下方的連續空格滑到最低點，
// 回傳新位置。南向不可移動的 piece 原地不動。
func (b *Board) tricklePieceDown(pos grid.Pos) grid.Pos {
	if !b.state.movable[grid.South].IsSet(pos) {
		return pos
	}

	nextY := pos.Y
	for nextY > 0 && b.state.empties.IsSet(grid.P(pos.X, nextY-1)) {
		nextY--
	}
	b.swapAlways(pos, grid.P(pos.X, nextY))

	return grid.P(pos.X, nextY)
}

// canMoveDownDiagonally 檢查往下一格＋橫向一格是否仍在盤內。
func (b *Board) canMoveDownDiagonally(pos grid.Pos, toWest bool) bool {
	if toWest {
		return pos.X > 0 && pos.Y > 0
	}
	return pos.X < b.state.cols-1 && pos.Y > 0
}

// moveDownDiagonally 回傳往下一格＋橫向一格後的座標。
func moveDownDiagonally(pos grid.Pos, toWest bool) grid.Pos {
	if toWest {
		return grid.P(pos.X-1, pos.Y-1)
	}
	return grid.P(pos.X+1, pos.Y-1)
}
