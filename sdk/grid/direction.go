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

package grid

// Direction 是四個基本方位之一，同時是可移動方向 BitGrid 陣列的索引。
type Direction uint8

const (
	North Direction = iota
	South
	East
	West

	// DirCount 方向總數，board 端用來宣告固定長度的方向 BitGrid 陣列。
	DirCount = 4
)

var dirNameMap = map[Direction]string{
	North: "north",
	South: "south",
	East:  "east",
	West:  "west",
}

func (d Direction) String() string {
	if s, ok := dirNameMap[d]; ok {
		return s
	}
	return "unknown"
}

// DirSet 是方向集合的位元遮罩表示。
//
// 一個 Regular piece 的可移動方向就是一個 DirSet；Empty 固定為 AllDirs、
// Wall 固定為 NoDirs。
type DirSet uint8

const (
	// NoDirs 空集合（Wall 的可移動方向）。
	NoDirs DirSet = 0
	// AllDirs 全方向集合（Empty 的可移動方向）。
	AllDirs DirSet = 1<<North | 1<<South | 1<<East | 1<<West
)

// Dirs 由零或多個方向組出一個 DirSet。
func Dirs(ds ...Direction) DirSet {
	var s DirSet
	for _, d := range ds {
		s |= 1 << d
	}
	return s
}

// Has 回傳集合是否包含指定方向。
func (s DirSet) Has(d Direction) bool {
	return s&(1<<d) != 0
}

// With 回傳加入指定方向後的新集合。
func (s DirSet) With(d Direction) DirSet {
	return s | 1<<d
}

// Without 回傳移除指定方向後的新集合。
func (s DirSet) Without(d Direction) DirSet {
	return s &^ (1 << d)
}

// Each 依固定順序（N, S, E, W）走訪集合內的方向。
func (s DirSet) Each(fn func(Direction)) {
	for d := Direction(0); d < DirCount; d++ {
		if s.Has(d) {
			fn(d)
		}
	}
}
