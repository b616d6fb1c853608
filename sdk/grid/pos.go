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

// Package grid 提供 matchlab 的底層資料結構：座標（Pos）、方向（Direction/DirSet）
// 與位棋盤（BitGrid）。
//
// 座標系約定（整個引擎共用，是合約的一部分）：
//   - x 向右遞增、y 向上遞增，(0,0) 在左下角。
//   - 邊界檢查不在本包內做：BitGrid 的操作假設座標合法，
//     由持有它的 Board 在對外入口統一把關。
package grid

import "fmt"

// Pos 是棋盤上的整數座標，以值相等比較（可直接當 map key）。
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// P 建立一個座標，省去 struct literal 的囉嗦寫法。
func P(x, y int) Pos {
	return Pos{X: x, Y: y}
}

// Offset 回傳本座標加上位移後的新座標（不做邊界檢查）。
func (p Pos) Offset(d Pos) Pos {
	return Pos{X: p.X + d.X, Y: p.Y + d.Y}
}

// Delta 回傳本座標減去另一座標的逐分量差（不做邊界檢查）。
func (p Pos) Delta(o Pos) Pos {
	return Pos{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}
