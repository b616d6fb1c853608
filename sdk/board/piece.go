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

package board

import (
	"fmt"

	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

// Kind 是 piece 的封閉分類：Wall、Empty、Regular 三種，沒有第四種。
type Kind uint8

const (
	KindWall Kind = iota
	KindEmpty
	KindRegular
)

var kindNameMap = map[Kind]string{
	KindWall:    "wall",
	KindEmpty:   "empty",
	KindRegular: "regular",
}

func (k Kind) String() string {
	if s, ok := kindNameMap[k]; ok {
		return s
	}
	return "unknown"
}

// Piece 是一格內容的標記表示（tagged value）。
//
// 三種變體：
//   - Wall：永遠不可移動，佔據格子，不屬於任何 type 遮罩。
//   - Empty：定義上全方向可移動，對應 empty 遮罩。
//   - Regular：帶 piece type 與自己的可移動方向集合。
//
// Piece 是查詢遮罩後的暫時值，不被 Board 存儲；比較以值相等進行。
// Type 與 Movable 只在 Kind == KindRegular 時有意義。
type Piece struct {
	Kind    Kind
	Type    spec.PieceID
	Movable grid.DirSet
}

// Wall 回傳 Wall piece。
func Wall() Piece {
	return Piece{Kind: KindWall}
}

// Empty 回傳 Empty piece。
func Empty() Piece {
	return Piece{Kind: KindEmpty, Movable: grid.AllDirs}
}

// Regular 回傳指定 type 與可移動方向集合的一般 piece。
func Regular(t spec.PieceID, movable grid.DirSet) Piece {
	return Piece{Kind: KindRegular, Type: t, Movable: movable}
}

// IsMovable 回傳 piece 在指定方向是否可移動。
// Empty 恆為 true、Wall 恆為 false。
func (p Piece) IsMovable(d grid.Direction) bool {
	switch p.Kind {
	case KindEmpty:
		return true
	case KindWall:
		return false
	default:
		return p.Movable.Has(d)
	}
}

func (p Piece) String() string {
	if p.Kind == KindRegular {
		return fmt.Sprintf("regular(%d)", p.Type)
	}
	return p.Kind.String()
}
