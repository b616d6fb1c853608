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

package dto

import (
	"github.com/zintix-labs/matchlab/corefmt"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/buf"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

type PlayResult struct {
	BoardName    string    `json:"board"`          // 盤面名稱
	GameID       spec.GID  `json:"gameid"`         // 盤面編號
	From         grid.Pos  `json:"from"`           // 互換座標一
	To           grid.Pos  `json:"to"`             // 互換座標二
	Swapped      bool      `json:"swapped"`        // 換位是否被放行
	TotalCleared int       `json:"cleared"`        // 全部連鎖消掉的 piece 數
	Steps        []StepDTO `json:"steps,omitempty"`
	ExtendResult any       `json:"ext,omitempty"` // 未輸出模式下存struct指標 轉到DTO時轉 map[string]any(Json) 或 []byte
	IsEnd        bool      `json:"isend"`          // 本局結束旗標
	State        PlayState `json:"play_state"`     // 可回放狀態
}

// StepDTO 為對外輸出的單步連鎖序列化結構。
type StepDTO struct {
	Pattern string         `json:"pattern"`         // 命中的圖樣名稱
	Piece   spec.PieceID   `json:"piece"`           // 命中的 piece type
	Rank    int            `json:"rank"`            // 圖樣優先級
	Hits    []grid.Pos     `json:"hits"`            // 命中座標
	Moves   []buf.Move     `json:"moves,omitempty"` // 重力位移（依執行順序）
	Fills   []buf.Fill     `json:"fills,omitempty"` // 補盤
}

// PlayState 是可回放狀態的外部表示：快照皆以 Base64URL 字串承載，
// 業務端需能完整 round-trip 保存與回送。
type PlayState struct {
	StartCoreSnapB64U string `json:"start_b64u"`           // 必回
	AfterCoreSnapB64U string `json:"after_b64u"`           // 必回
	BoardSnapB64U     string `json:"board_b64u,omitempty"` // 結束盤面快照
}

func NewPlayResultDTO(pr *buf.PlayResult) (PlayResult, error) {
	if pr == nil {
		return PlayResult{}, errs.NewWarn("play result is nil")
	}
	state := PlayState{
		StartCoreSnapB64U: corefmt.EncodeBase64URL(pr.State.StartCoreSnap),
		AfterCoreSnapB64U: corefmt.EncodeBase64URL(pr.State.AfterCoreSnap),
	}
	if len(pr.State.BoardSnap) != 0 {
		state.BoardSnapB64U = corefmt.EncodeBase64URL(pr.State.BoardSnap)
	}

	dto := PlayResult{
		BoardName:    pr.BoardName,
		GameID:       pr.GameID,
		From:         pr.From,
		To:           pr.To,
		Swapped:      pr.Swapped,
		TotalCleared: pr.TotalCleared,
		ExtendResult: renderExtendResult(pr.Rule, pr.ExtendSnap),
		IsEnd:        pr.IsEnd,
		State:        state,
	}

	if pr.Cascades() > 0 {
		dto.Steps = make([]StepDTO, pr.Cascades())
		for i := range dto.Steps {
			dto.Steps[i] = newStepDTO(pr, i)
		}
	}

	return dto, nil
}

// newStepDTO 對第 i 步做深拷貝：PlayResult 是可重用 buffer，
// DTO 必須與下一次 play 完全脫鉤。
func newStepDTO(pr *buf.PlayResult, i int) StepDTO {
	s := &pr.Steps[i]
	return StepDTO{
		Pattern: s.Pattern,
		Piece:   s.Piece,
		Rank:    s.Rank,
		Hits:    append([]grid.Pos(nil), pr.StepHits(i)...),
		Moves:   append([]buf.Move(nil), pr.StepMoves(i)...),
		Fills:   append([]buf.Fill(nil), pr.StepFills(i)...),
	}
}
