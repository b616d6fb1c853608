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

	"github.com/zintix-labs/matchlab/sdk/board"
	"github.com/zintix-labs/matchlab/sdk/buf"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/sdk/puzzle"
	"github.com/zintix-labs/matchlab/spec"
)

// Logics 彙整 demo 規則模組，供 matchlab.Logics(...) 掛載。
var Logics = puzzle.NewLogicRegistry()

// ============================================================
// ** 註冊 **
// ============================================================

func init() {
	logic := "demo_classic"
	builder := buildGame0000
	logics := Logics
	if err := puzzle.GameRegister[*ext0000](spec.RuleKey(logic), builder, logics); err != nil {
		log.Fatalf("%s register failed: %v", logic, err)
	}
}

// ============================================================
// ** 遊戲介面 **
// ============================================================

type game0000 struct {
	fixed *fixed0000
	ext   *ext0000
}

func buildGame0000(gh *puzzle.Game) (puzzle.GameLogic, error) {
	g := &game0000{
		fixed: new(fixed0000),
		ext:   nil,
	}
	if err := spec.DecodeFixed(gh.BoardSetting, g.fixed); err != nil {
		return nil, err
	}
	g.ext = g.newext(gh.IsSim)
	return g, nil
}

// ============================================================
// ** 此遊戲 Fixed 設定宣告 **
// ============================================================

// fixed
type fixed0000 struct {
	AdjacentOnly    bool `yaml:"adjacent_only"`
	RevertOnNoMatch bool `yaml:"revert_on_no_match"`
}

// ============================================================
// ** 遊戲需要的額外結構宣告: 需要實作 Reset 以及 SnapShot **
// ============================================================

type ext0000 struct {
	Reverted    bool     `json:"reverted,omitzero"`
	BiggestStep int      `json:"biggest_step,omitzero"`
	HitPatterns []string `json:"hit_patterns,omitzero"`
	isSim       bool
}

func (g *game0000) newext(isSim bool) *ext0000 {
	return &ext0000{
		Reverted:    false,
		BiggestStep: 0,
		HitPatterns: make([]string, 0, 8),
		isSim:       isSim,
	}
}

func (e *ext0000) Reset() {
	e.Reverted = false
	e.BiggestStep = 0
	e.HitPatterns = e.HitPatterns[:0]
}

func (e *ext0000) Snapshot() any {
	if e.isSim {
		return nil
	}
	hits := make([]string, len(e.HitPatterns))
	copy(hits, e.HitPatterns)
	ec := &ext0000{
		Reverted:    e.Reverted,
		BiggestStep: e.BiggestStep,
		HitPatterns: hits,
	}
	return ec
}

// ============================================================
// ** 換位規則鏈 **
// ============================================================

// SwapRules 在內建可移動方向規則之後追加相鄰限制。
func (g *game0000) SwapRules(gh *puzzle.Game) []board.Rule {
	if !g.fixed.AdjacentOnly {
		return nil
	}
	return []board.Rule{adjacentRule}
}

// adjacentRule 只允許正交相鄰的兩格互換。
func adjacentRule(v board.View, first, second grid.Pos) bool {
	d := first.Delta(second)
	if d.X < 0 {
		d.X = -d.X
	}
	if d.Y < 0 {
		d.Y = -d.Y
	}
	return d.X+d.Y == 1
}

// ============================================================
// ** 遊戲主邏輯入口 **
// ============================================================

// GetResult 主要介面函數 回傳遊戲結果 *buf.PlayResult
func (g *game0000) GetResult(r *buf.PlayRequest, gh *puzzle.Game) *buf.PlayResult {
	sr := gh.StartNewPlay(r)
	ext := g.ext
	ext.Reset()

	// 1. 過規則鏈並互換
	sr.Swapped = gh.Board.SwapPieces(r.From, r.To)
	if !sr.Swapped {
		sr.ExtendSnap = ext.Snapshot()
		sr.End()
		return sr
	}

	// 2. 消解至穩定
	total := puzzle.ResolveCascades(gh, sr)
	g.collect(sr)

	// 3. 沒消到東西 換回去
	if total == 0 && g.fixed.RevertOnNoMatch {
		gh.Board.SwapPieces(r.To, r.From)
		gh.Board.NextMatch() // 排空換回後標記的檢查佇列
		sr.Swapped = false
		ext.Reverted = true
	}

	sr.ExtendSnap = ext.Snapshot()
	sr.End()
	return sr
}

// ============================================================
// ** 遊戲內部輔助函數實作 **
// ============================================================

func (g *game0000) collect(sr *buf.PlayResult) {
	ext := g.ext
	for i := range sr.Steps {
		step := &sr.Steps[i]
		if step.HitsLen > ext.BiggestStep {
			ext.BiggestStep = step.HitsLen
		}
		ext.HitPatterns = append(ext.HitPatterns, step.Pattern)
	}
}
