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

package demo_logic

import (
	"log"

	"github.com/zintix-labs/matchlab/sdk/buf"
	"github.com/zintix-labs/matchlab/sdk/puzzle"
)

// ============================================================
// ** 註冊 **
// ============================================================

func init() {
	if err := puzzle.GameRegister[*buf.NoExtend](
		"demo_chain",
		buildGame0001,
		Logics,
	); err != nil {
		log.Fatalf("demo_chain register failed: %v", err)
	}
}

// ============================================================
// ** 遊戲介面 **
// ============================================================

// game0001 是最小規則模組：不加額外換位規則（只剩內建的
// 可移動方向檢查），換位成功後一路消解到穩定為止。
type game0001 struct{}

func buildGame0001(g *puzzle.Game) (puzzle.GameLogic, error) {
	return &game0001{}, nil
}

// ============================================================
// ** 遊戲主邏輯入口 **
// ============================================================

// GetResult 主要介面函數 回傳遊戲結果 *buf.PlayResult
func (g *game0001) GetResult(r *buf.PlayRequest, gh *puzzle.Game) *buf.PlayResult {
	sr := gh.StartNewPlay(r)

	sr.Swapped = gh.Board.SwapPieces(r.From, r.To)
	if sr.Swapped {
		puzzle.ResolveCascades(gh, sr)
	}

	sr.End()
	return sr
}
