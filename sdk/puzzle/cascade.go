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
	"github.com/zintix-labs/matchlab/sdk/buf"
	"github.com/zintix-labs/matchlab/sdk/ops"
)

// maxCascades 是單次 play 的連鎖上限。
//
// 正常設定檔不可能接近這個值；觸頂代表圖樣/權重組合會無限連鎖
// （例如單一 piece type 配上必中圖樣），此時停止並結束該局，
// 避免熱路徑變成死迴圈。
const maxCascades = 1024

// ResolveCascades 消解盤面上所有待檢配對並記錄到結果緩衝。
//
// 每一步：取出一組配對 → 清除命中格 → 全盤 trickle → 補滿空格，
// 直到沒有新的配對成立。補盤會把新 piece 落點排入檢查佇列，
// 所以連鎖是自然湧現的，不需要呼叫端重掃盤面。
//
// 回傳本次消解的總消除數（同 res.TotalCleared 的增量）。
func ResolveCascades(g *Game, res *buf.PlayResult) int {
	total := 0
	for i := 0; i < maxCascades; i++ {
		m := g.Board.NextMatch()
		if m == nil {
			return total
		}

		cleared := ops.Clear(g.Board, m.Positions)
		moves := g.Board.Trickle()
		g.fillBuf = ops.Fill(g.Board, g.Gen, g.fillBuf[:0])

		res.AddStep(m.Pattern.Name(), m.Pattern.PieceType(), m.Pattern.Rank(),
			m.Positions, moves, g.fillBuf)
		total += cleared
	}
	return total
}
