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

package grid

import (
	"math/bits"

	"github.com/zintix-labs/matchlab/errs"
)

// 一個 word 的位元數與其 log2，索引計算用。
const (
	wordSize     = 64
	log2WordSize = 6
)

// BitGrid 是固定大小的 W×H 布林棋盤，以 uint64 word 打包存儲。
//
// 它是整個引擎的地基：佔據遮罩、每種 piece type 的遮罩、四個方向的
// 可移動遮罩，全部都是 BitGrid。
//
// 熱路徑合約：
//   - Set/Unset/IsSet/Swap 都是 O(1) 的 word 級位元操作。
//   - 不做邊界檢查。越界座標的行為未定義，由 Board 在對外入口把關。
//   - BitGrid 是純值容器，除了內容以外沒有身份：兩個內容相同的
//     BitGrid 可以互換使用。
type BitGrid struct {
	cols  int
	rows  int
	words []uint64
}

// NewBitGrid 建立指定大小、全零的 BitGrid。
func NewBitGrid(cols, rows int) *BitGrid {
	n := (cols*rows + wordSize - 1) >> log2WordSize
	return &BitGrid{
		cols:  cols,
		rows:  rows,
		words: make([]uint64, n),
	}
}

// Cols 回傳棋盤寬度。
func (g *BitGrid) Cols() int { return g.cols }

// Rows 回傳棋盤高度。
func (g *BitGrid) Rows() int { return g.rows }

func (g *BitGrid) idx(p Pos) int {
	return p.Y*g.cols + p.X
}

// Set 把指定座標的位元設為 1。
func (g *BitGrid) Set(p Pos) {
	i := g.idx(p)
	g.words[i>>log2WordSize] |= 1 << (i & (wordSize - 1))
}

// Unset 把指定座標的位元清為 0。
func (g *BitGrid) Unset(p Pos) {
	i := g.idx(p)
	g.words[i>>log2WordSize] &^= 1 << (i & (wordSize - 1))
}

// IsSet 回傳指定座標的位元是否為 1。
func (g *BitGrid) IsSet(p Pos) bool {
	i := g.idx(p)
	return g.words[i>>log2WordSize]&(1<<(i&(wordSize-1))) != 0
}

// Swap 交換兩個座標的位元；兩位相同時為安全的 no-op。
func (g *BitGrid) Swap(a, b Pos) {
	ia, ib := g.idx(a), g.idx(b)
	wa, wb := ia>>log2WordSize, ib>>log2WordSize
	ba, bb := uint(ia&(wordSize-1)), uint(ib&(wordSize-1))

	va := g.words[wa] >> ba & 1
	vb := g.words[wb] >> bb & 1
	if va == vb {
		return
	}
	g.words[wa] ^= 1 << ba
	g.words[wb] ^= 1 << bb
}

// Count 回傳被設起的位元總數（統計/除錯用，非熱路徑）。
func (g *BitGrid) Count() int {
	n := 0
	for _, w := range g.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Equal 回傳兩個 BitGrid 的大小與內容是否完全相同。
func (g *BitGrid) Equal(o *BitGrid) bool {
	if g.cols != o.cols || g.rows != o.rows {
		return false
	}
	for i := range g.words {
		if g.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// Clone 回傳內容相同的深拷貝。
func (g *BitGrid) Clone() *BitGrid {
	c := &BitGrid{cols: g.cols, rows: g.rows, words: make([]uint64, len(g.words))}
	copy(c.words, g.words)
	return c
}

// Snapshot 回傳可用於還原的 word 序列拷貝（存檔用）。
func (g *BitGrid) Snapshot() []uint64 {
	out := make([]uint64, len(g.words))
	copy(out, g.words)
	return out
}

// Restore 以 Snapshot 取得的 word 序列還原內容。
// 長度不符視為存檔毀損，直接回傳 Fatal。
func (g *BitGrid) Restore(words []uint64) error {
	if len(words) != len(g.words) {
		return errs.NewFatal("bitgrid restore: word length mismatch")
	}
	copy(g.words, words)
	return nil
}
