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

package spec

import (
	"fmt"

	"github.com/zintix-labs/matchlab/errs"
)

// PatternDef 描述一個配對圖樣。
//
// Fields:
//   - Name: 圖樣名稱（報表/紀錄用）
//   - Piece: 參與配對的 piece 名稱
//   - Rank: 優先級，數字大者先檢查；同 Rank 順序不保證
//   - Spaces: 相對位移集合，每項是 [dx, dy]；圖樣沒有固定原點
type PatternDef struct {
	Name   string   `yaml:"name"   json:"name"`
	Piece  string   `yaml:"piece"  json:"piece"`
	Rank   int      `yaml:"rank"   json:"rank"`
	Spaces [][2]int `yaml:"spaces" json:"spaces"`

	PieceID PieceID `yaml:"-" json:"-"` // Init 時由 Piece 名稱解析
}

// PatternSetting 統整模式中的所有配對圖樣。
type PatternSetting struct {
	PatternUsed []PatternDef `yaml:"pattern_used" json:"pattern_used"`
	initFlag    bool
}

// Init 檢查設定並賦值：解析 piece 名稱、檢查位移集合合法性。
func (ps *PatternSetting) Init(pieces *PieceSetting) error {
	// 檢查初始化旗標
	if ps.initFlag {
		return nil
	}
	seen := map[string]struct{}{}
	for i := range ps.PatternUsed {
		def := &ps.PatternUsed[i]
		if def.Name == "" {
			return errs.NewFatal(fmt.Sprintf("pattern_used[%d]: name required", i))
		}
		if _, ok := seen[def.Name]; ok {
			return errs.NewFatal(fmt.Sprintf("duplicate pattern name: %s", def.Name))
		}
		seen[def.Name] = struct{}{}

		id, ok := pieces.IDByName(def.Piece)
		if !ok {
			return errs.NewFatal(fmt.Sprintf("pattern %q: unknown piece %q", def.Name, def.Piece))
		}
		def.PieceID = id

		if len(def.Spaces) == 0 {
			return errs.NewFatal(fmt.Sprintf("pattern %q: empty spaces", def.Name))
		}
		dup := map[[2]int]struct{}{}
		for _, sp := range def.Spaces {
			if _, ok := dup[sp]; ok {
				return errs.NewFatal(fmt.Sprintf("pattern %q: duplicate space [%d, %d]", def.Name, sp[0], sp[1]))
			}
			dup[sp] = struct{}{}
		}
	}

	// set 初始化旗標
	ps.initFlag = true
	return nil
}
