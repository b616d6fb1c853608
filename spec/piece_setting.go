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
	"strings"

	"github.com/zintix-labs/matchlab/errs"
)

// DirMask 是方向集合的位元遮罩，位元佈局與 sdk/grid.DirSet 一致：
// bit0=North bit1=South bit2=East bit3=West。
// spec 自己持有這份定義，避免設定層反向依賴 sdk。
type DirMask uint8

// AllDirMask 全方向。
const AllDirMask DirMask = 0b1111

var dirBitMap = map[string]DirMask{
	"north": 1 << 0,
	"south": 1 << 1,
	"east":  1 << 2,
	"west":  1 << 3,
}

// ParseDirMask 把方向名稱列表轉成 DirMask；空列表代表全方向。
func ParseDirMask(names []string) (DirMask, error) {
	if len(names) == 0 {
		return AllDirMask, nil
	}
	var m DirMask
	for _, n := range names {
		bit, ok := dirBitMap[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return 0, errs.NewFatal(fmt.Sprintf("unknown direction: %q", n))
		}
		m |= bit
	}
	return m, nil
}

// PieceDef 描述一種 piece type。
//
// Fields:
//   - Name: piece 名稱，設定檔內其他段落（patterns/layout）以名稱引用
//   - Movable: 預設可移動方向名稱；留空代表全方向
//   - Weight: 生成權重，供模擬器補盤抽樣使用；0 代表不生成
type PieceDef struct {
	Name    string   `yaml:"name"    json:"name"`
	Movable []string `yaml:"movable" json:"movable"`
	Weight  int      `yaml:"weight"  json:"weight"`
}

// PieceSetting 統整棋盤使用的所有 piece type，並記錄衍生屬性
// （ID 對照、預設方向遮罩、生成權重）。
//
// PieceID 依宣告順序從 1 起算；0 保留，代表「非 Regular piece」。
type PieceSetting struct {
	PieceUsed   []PieceDef `yaml:"piece_used" json:"piece_used"`
	PieceCount  int        `yaml:"-"          json:"-"`
	MovableMask []DirMask  `yaml:"-"          json:"-"` // 索引為 PieceID-1
	Weights     []int      `yaml:"-"          json:"-"` // 索引為 PieceID-1
	byName      map[string]PieceID
	initFlag    bool
}

// Init 檢查設定並賦值
func (ps *PieceSetting) Init() error {
	// 檢查初始化旗標
	if ps.initFlag {
		return nil
	}
	if len(ps.PieceUsed) == 0 {
		return errs.NewFatal("piece_used is empty")
	}

	ps.PieceCount = len(ps.PieceUsed)
	ps.MovableMask = make([]DirMask, ps.PieceCount)
	ps.Weights = make([]int, ps.PieceCount)
	ps.byName = make(map[string]PieceID, ps.PieceCount)

	for i, def := range ps.PieceUsed {
		name := strings.ToLower(strings.TrimSpace(def.Name))
		if name == "" {
			return errs.NewFatal(fmt.Sprintf("piece_used[%d]: name required", i))
		}
		if _, ok := ps.byName[name]; ok {
			return errs.NewFatal(fmt.Sprintf("duplicate piece name: %s", name))
		}
		mask, err := ParseDirMask(def.Movable)
		if err != nil {
			return errs.Wrap(err, fmt.Sprintf("piece %q movable", name))
		}
		if def.Weight < 0 {
			return errs.NewFatal(fmt.Sprintf("piece %q: negative weight", name))
		}
		ps.byName[name] = PieceID(i + 1)
		ps.MovableMask[i] = mask
		ps.Weights[i] = def.Weight
	}

	// set 初始化旗標
	ps.initFlag = true
	return nil
}

// IDByName 依名稱取得 PieceID（大小寫不敏感）。
func (ps *PieceSetting) IDByName(name string) (PieceID, bool) {
	id, ok := ps.byName[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// NameByID 依 PieceID 取回名稱，未知 ID 回傳空字串。
func (ps *PieceSetting) NameByID(id PieceID) string {
	i := int(id) - 1
	if i < 0 || i >= len(ps.PieceUsed) {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(ps.PieceUsed[i].Name))
}

// MaskByID 依 PieceID 取回預設可移動方向遮罩，未知 ID 回傳 0。
func (ps *PieceSetting) MaskByID(id PieceID) DirMask {
	i := int(id) - 1
	if i < 0 || i >= len(ps.MovableMask) {
		return 0
	}
	return ps.MovableMask[i]
}
