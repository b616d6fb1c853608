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

// Package match 定義配對圖樣（Pattern）與配對結果（Match），
// 以及針對單一 piece type 位棋盤的變體（variant）檢查。
//
// 圖樣是「沒有固定原點的相對位移集合」：檢查時把每個位移輪流當作
// 觸發點，平移整個圖樣後對位棋盤逐格驗證。變體搜尋的成本由圖樣
// 大小決定（小而固定），與盤面大小無關。
package match

import (
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

// Pattern 是一個註冊後不可變的配對圖樣。
type Pattern struct {
	name      string
	pieceType spec.PieceID
	spaces    []grid.Pos
	rank      int
}

// NewPattern 建立圖樣。
//
// spaces 不可為空、不可重複；建立後內容不再變動（Board 依賴這點，
// 排序與變體檢查都不做防禦性拷貝）。
func NewPattern(name string, pieceType spec.PieceID, spaces []grid.Pos, rank int) (*Pattern, error) {
	if pieceType <= 0 {
		return nil, errs.NewFatal("pattern piece type required")
	}
	if len(spaces) == 0 {
		return nil, errs.NewFatal("pattern spaces required")
	}
	dup := make(map[grid.Pos]struct{}, len(spaces))
	own := make([]grid.Pos, 0, len(spaces))
	for _, s := range spaces {
		if _, ok := dup[s]; ok {
			return nil, errs.NewFatal("pattern spaces duplicated")
		}
		dup[s] = struct{}{}
		own = append(own, s)
	}
	return &Pattern{
		name:      name,
		pieceType: pieceType,
		spaces:    own,
		rank:      rank,
	}, nil
}

// FromSetting 依設定檔的 PatternSetting 建出圖樣列表（順序同宣告順序）。
func FromSetting(ps *spec.PatternSetting) ([]*Pattern, error) {
	out := make([]*Pattern, 0, len(ps.PatternUsed))
	for i := range ps.PatternUsed {
		def := &ps.PatternUsed[i]
		spaces := make([]grid.Pos, len(def.Spaces))
		for j, sp := range def.Spaces {
			spaces[j] = grid.P(sp[0], sp[1])
		}
		p, err := NewPattern(def.Name, def.PieceID, spaces, def.Rank)
		if err != nil {
			return nil, errs.Wrap(err, "pattern "+def.Name)
		}
		out = append(out, p)
	}
	return out, nil
}

// Name 回傳圖樣名稱（報表/紀錄用）。
func (p *Pattern) Name() string { return p.name }

// PieceType 回傳參與配對的 piece type。
func (p *Pattern) PieceType() spec.PieceID { return p.pieceType }

// Rank 回傳優先級，數字大者先檢查。
func (p *Pattern) Rank() int { return p.rank }

// Spaces 回傳相對位移集合。呼叫端不得修改。
func (p *Pattern) Spaces() []grid.Pos { return p.spaces }

// Match 是一次配對結果：命中的圖樣、觸發檢查的變動座標，
// 以及滿足圖樣的所有盤面絕對座標。
type Match struct {
	Pattern    *Pattern
	ChangedPos grid.Pos
	Positions  []grid.Pos
}

// Find 在單一 piece type 的位棋盤上尋找包含 pos 的圖樣變體。
//
// 對圖樣的每個位移 o，把 pos-o 當作平移原點展開整個圖樣；
// 只要有一個變體的所有絕對座標都落在盤內且被設起，就回傳這組座標。
// 沒有任何變體成立時回傳 (nil, false)。
func Find(g *grid.BitGrid, p *Pattern, pos grid.Pos) ([]grid.Pos, bool) {
	for _, o := range p.spaces {
		anchor := pos.Delta(o)
		if hit, ok := checkVariant(g, p.spaces, anchor); ok {
			return hit, true
		}
	}
	return nil, false
}

// checkVariant 檢查單一變體；任一座標出界或未設起即失敗。
func checkVariant(g *grid.BitGrid, spaces []grid.Pos, anchor grid.Pos) ([]grid.Pos, bool) {
	cols, rows := g.Cols(), g.Rows()
	for _, s := range spaces {
		abs := s.Offset(anchor)
		if abs.X < 0 || abs.X >= cols || abs.Y < 0 || abs.Y >= rows {
			return nil, false
		}
		if !g.IsSet(abs) {
			return nil, false
		}
	}
	hit := make([]grid.Pos, len(spaces))
	for i, s := range spaces {
		hit[i] = s.Offset(anchor)
	}
	return hit, true
}
