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
	"github.com/zintix-labs/matchlab/sdk/board"
	"github.com/zintix-labs/matchlab/sdk/buf"
	"github.com/zintix-labs/matchlab/sdk/gen"
	"github.com/zintix-labs/matchlab/sdk/grid"
)

// Fill 把盤面所有 Empty 格補上生成器抽出的棋子，並把每筆補塊
// append 到 out 後回傳。
//
// 掃描順序為列優先、自底向上（y 外圈由 0 往上、x 內圈由 0 往右），
// 讓相同 seed 下的補塊序列完全可重現。
// out 可為 nil；熱路徑可重用同一個切片避免配置。
func Fill(b *board.Board, g *gen.PieceGenerator, out []buf.Fill) []buf.Fill {
	for y := 0; y < b.Rows(); y++ {
		for x := 0; x < b.Cols(); x++ {
			pos := grid.P(x, y)
			if b.Piece(pos).Kind != board.KindEmpty {
				continue
			}
			p := g.NextPiece()
			b.SetPiece(pos, p)
			out = append(out, buf.Fill{Pos: pos, Piece: p.Type})
		}
	}
	return out
}
