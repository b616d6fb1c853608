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

import "github.com/zintix-labs/matchlab/errs"

// GridSetting 描述棋盤尺寸的設定。
//
// Fields:
//   - Columns: 盤面寬度（x 軸格數）
//   - Rows: 盤面高度（y 軸格數）
type GridSetting struct {
	Columns   int `yaml:"columns" json:"columns"`
	Rows      int `yaml:"rows"    json:"rows"`
	CellCount int `yaml:"-"       json:"-"`
	initFlag  bool
}

// Init 檢查不合法的設定
func (gs *GridSetting) Init() error {
	// 檢查初始化旗標
	if gs.initFlag {
		return nil
	}
	if gs.Columns <= 0 || gs.Rows <= 0 {
		return errs.NewFatal("invalid grid dimensions")
	}
	gs.CellCount = gs.Columns * gs.Rows
	gs.initFlag = true
	return nil
}
