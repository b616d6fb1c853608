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

package gen

import (
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/board"
	"github.com/zintix-labs/matchlab/sdk/core"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/sdk/sampler"
	"github.com/zintix-labs/matchlab/spec"
)

// lutWeightLimit 是 LUT 建表的權重總和上限；
// 超過則改用 AliasTable，避免展開切片佔用過多記憶體。
const lutWeightLimit = 100_000

// picker 抽象加權抽樣結構，讓生成器依權重規模選用 LUT 或 AliasTable。
type picker interface {
	Pick(c *core.Core) int
}

// PieceGenerator 依 piece 權重補盤生成棋子。
// 會快取各 PieceID 的方向遮罩與抽樣表，讓熱路徑免配置執行。
type PieceGenerator struct {
	core         *core.Core
	PieceSetting *spec.PieceSetting
	// PieceSetting 內容建立
	movable []grid.DirSet // 索引為 PieceID-1
	pk      picker
}

// NewPieceGenerator 根據 piece 設定與核心亂數器建立生成器，並立即完成初始化。
// 權重總和小於 lutWeightLimit 時使用 LUT，否則使用 AliasTable。
func NewPieceGenerator(c *core.Core, ps *spec.PieceSetting) (*PieceGenerator, error) {
	if err := ps.Init(); err != nil {
		return nil, err
	}

	total := 0
	for _, w := range ps.Weights {
		total += w
	}
	if total <= 0 {
		return nil, errs.NewFatal("piece generator: all piece weights are zero")
	}

	g := &PieceGenerator{
		core:         c,
		PieceSetting: ps,
		movable:      make([]grid.DirSet, ps.PieceCount),
	}
	// DirMask 與 grid.DirSet 位元佈局一致，直接轉型
	for i, m := range ps.MovableMask {
		g.movable[i] = grid.DirSet(m)
	}

	if total <= lutWeightLimit {
		g.pk = sampler.BuildLUT(ps.Weights)
	} else {
		g.pk = sampler.BuildAliasTable(ps.Weights)
	}
	return g, nil
}

// NextID 抽出下一個 PieceID（1 起算）。
func (g *PieceGenerator) NextID() spec.PieceID {
	return spec.PieceID(g.pk.Pick(g.core) + 1)
}

// NextPiece 抽出下一個棋子，帶上該 type 的預設可移動方向。
func (g *PieceGenerator) NextPiece() board.Piece {
	id := g.NextID()
	return board.Regular(id, g.movable[int(id)-1])
}
