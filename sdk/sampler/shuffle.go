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

// Package sampler 提供一系列高效能的加權抽樣演算法與工具。
//
// 本檔案 (shuffle.go) 實作了均勻洗牌 (Fisher-Yates)。

package sampler

import (
	"github.com/zintix-labs/matchlab/sdk/core"
)

// Shuffle 以 Fisher-Yates 演算法原地均勻洗牌。
//
// 每個排列出現的機率相同；使用 Core 的 RNG 以確保
// 相同 seed 下結果可重現。
func Shuffle[T any](c *core.Core, src []T) {
	for i := len(src) - 1; i > 0; i-- {
		j := c.IntN(i + 1)
		src[i], src[j] = src[j], src[i]
	}
}
