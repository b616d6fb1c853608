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

// Package spec 定義 matchlab 的設定檔結構與解析入口。
//
// 一份設定檔（YAML/JSON）完整描述一張棋盤：尺寸、piece 種類、
// 配對圖樣（patterns）、換位規則鏈的 RuleKey，以及可選的初始盤面。
// 所有設定在解析後立即做 fail-fast 檢查，runtime 不再驗證。
package spec

import (
	"fmt"

	"github.com/zintix-labs/matchlab/errs"
)

// GID 遊戲/棋盤在 Catalog 內的唯一識別碼。
type GID int

// RuleKey 對應規則註冊表內的一組換位規則鏈 builder。
type RuleKey string

// PieceID 是 piece type 的數值識別碼（1 起算，0 保留給「無」）。
// 以 int16 存儲，與盤面熱路徑的慣例一致。
type PieceID int16

// BoardSetting 包含啟動一張棋盤所需的所有高階設定。
type BoardSetting struct {
	GameName     string         `yaml:"game_name"      json:"game_name"`
	GameID       GID            `yaml:"game_id"        json:"game_id"`
	RuleKey      RuleKey        `yaml:"rule_key"       json:"rule_key"`
	GridSetting  GridSetting    `yaml:"grid_setting"   json:"grid_setting"`
	PieceSetting PieceSetting   `yaml:"piece_setting"  json:"piece_setting"`
	Patterns     PatternSetting `yaml:"pattern_setting" json:"pattern_setting"`
	Layout       LayoutSetting  `yaml:"layout_setting" json:"layout_setting"`
	Fixed        map[string]any `yaml:"fixed"          json:"fixed"`
}

// init
func (bs *BoardSetting) init() error {
	if err := bs.GridSetting.Init(); err != nil {
		return err
	}
	if err := bs.PieceSetting.Init(); err != nil {
		return err
	}
	if err := bs.Patterns.Init(&bs.PieceSetting); err != nil {
		return err
	}
	if err := bs.Layout.Init(&bs.GridSetting, &bs.PieceSetting); err != nil {
		return err
	}
	return bs.valid()
}

// valid 執行最基本的設定檔檢查，如需更多驗證可在此擴充。
func (bs *BoardSetting) valid() error {
	if bs.GameName == "" {
		return errs.NewFatal("game_name required")
	}
	if bs.GameID <= 0 {
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:invalid game_id", bs.GameName))
	}
	if bs.RuleKey == "" {
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:empty rule_key", bs.GameName))
	}
	return nil
}
