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

// Package ops 提供消除迴圈中盤面層級的批次操作：
// 消除命中格 (Clear) 與補滿空格 (Fill)。
package ops

import (
	"github.com/zintix-labs/matchlab/sdk/board"
	"github.com/zintix-labs/matchlab/sdk/grid"
)

// Clear 將命中位置全部改為 Empty，回傳實際清除的格數。
//
// 同一位置重複出現只會計一次；本來就是 Empty 的格不計。
// Wall 不會被消除，遇到時直接跳過。
func Clear(b *board.Board, hits []grid.Pos) int {
	cleared := 0
	for _, pos := range hits {
		p := b.Piece(pos)
		if p.Kind != board.KindRegular {
			continue
		}
		b.SetPiece(pos, board.Empty())
		cleared++
	}
	return cleared
}
