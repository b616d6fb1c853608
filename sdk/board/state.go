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
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

const compactThreshold = 256

// posQueue 是變動座標的 FIFO。
//
// 重複進隊是刻意設計：同一座標被幾次變動觸碰，就要被配對檢查幾次。
// 不是 set、也不去重。pop 走 head 索引避免每次搬移，head 累積過大時
// 一次壓回。
type posQueue struct {
	items []grid.Pos
	head  int
}

func (q *posQueue) push(p grid.Pos) {
	q.items = append(q.items, p)
}

func (q *posQueue) pop() (grid.Pos, bool) {
	if q.head >= len(q.items) {
		return grid.Pos{}, false
	}
	p := q.items[q.head]
	q.head++
	if q.head > compactThreshold && q.head > len(q.items)/2 {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	return p, true
}

func (q *posQueue) len() int {
	return len(q.items) - q.head
}

// pending 回傳尚未消化的座標拷貝（存檔用）。
func (q *posQueue) pending() []grid.Pos {
	out := make([]grid.Pos, q.len())
	copy(out, q.items[q.head:])
	return out
}

// State 保存棋盤上所有 piece 的當前位置，以及待配對檢查的座標隊列。
//
// State 與 Board 分離：Board 不可序列化（掛著 patterns 與規則鏈），
// State 可以。存檔時序列化 State（Export/ImportState），讀檔後配上
// 同一套 patterns/規則重建 Board，重放相同操作會得到相同行為——
// 變動隊列是狀態的一部分，也一起存。
//
// 不變量（所有變異操作共同維護）：
//   - 每格最多屬於一個 type 遮罩，且 type 遮罩與 empty 遮罩互斥。
//   - 哪個遮罩都沒有的格子就是 Wall。
type State struct {
	cols    int
	rows    int
	types   map[spec.PieceID]*grid.BitGrid // 依 type 懶建立
	empties *grid.BitGrid
	movable [grid.DirCount]*grid.BitGrid
	changed posQueue
}

// NewState 建立指定大小的預設狀態：整張盤都是 Wall，隊列為空。
func NewState(cols, rows int) *State {
	s := &State{
		cols:    cols,
		rows:    rows,
		types:   map[spec.PieceID]*grid.BitGrid{},
		empties: grid.NewBitGrid(cols, rows),
	}
	for d := range s.movable {
		s.movable[d] = grid.NewBitGrid(cols, rows)
	}
	return s
}

// Cols 回傳盤面寬度。
func (s *State) Cols() int { return s.cols }

// Rows 回傳盤面高度。
func (s *State) Rows() int { return s.rows }

// PendingChecks 回傳尚未消化的配對檢查數（觀測用）。
func (s *State) PendingChecks() int { return s.changed.len() }

// StateExport 是 State 的可序列化外觀（opaque 存檔格式的內容物）。
type StateExport struct {
	Cols    int                         `json:"cols"`
	Rows    int                         `json:"rows"`
	Types   map[spec.PieceID][]uint64   `json:"types"`
	Empties []uint64                    `json:"empties"`
	Movable [grid.DirCount][]uint64     `json:"movable"`
	Changed []grid.Pos                  `json:"changed"`
}

// Export 匯出完整狀態（type 遮罩、empty 遮罩、方向遮罩、變動隊列）。
func (s *State) Export() *StateExport {
	e := &StateExport{
		Cols:    s.cols,
		Rows:    s.rows,
		Types:   make(map[spec.PieceID][]uint64, len(s.types)),
		Empties: s.empties.Snapshot(),
		Changed: s.changed.pending(),
	}
	for t, g := range s.types {
		e.Types[t] = g.Snapshot()
	}
	for d := range s.movable {
		e.Movable[d] = s.movable[d].Snapshot()
	}
	return e
}

// ImportState 以 Export 產出的資料重建 State。
// 任何長度/尺寸不符都視為存檔毀損，以 Fatal 回報。
func ImportState(e *StateExport) (*State, error) {
	if e == nil {
		return nil, errs.NewFatal("state import: nil export")
	}
	if e.Cols <= 0 || e.Rows <= 0 {
		return nil, errs.NewFatal("state import: invalid dimensions")
	}
	s := NewState(e.Cols, e.Rows)
	if err := s.empties.Restore(e.Empties); err != nil {
		return nil, errs.Wrap(err, "state import: empties")
	}
	for d := range s.movable {
		if err := s.movable[d].Restore(e.Movable[d]); err != nil {
			return nil, errs.Wrap(err, "state import: movable")
		}
	}
	for t, words := range e.Types {
		if t <= 0 {
			return nil, errs.NewFatal("state import: invalid piece type")
		}
		g := grid.NewBitGrid(e.Cols, e.Rows)
		if err := g.Restore(words); err != nil {
			return nil, errs.Wrap(err, "state import: type grid")
		}
		s.types[t] = g
	}
	for _, p := range e.Changed {
		s.changed.push(p)
	}
	return s, nil
}
