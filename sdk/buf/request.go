package buf

import (
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

// PlayRequest 是一次換位請求：指定盤面與要互換的兩個座標。
//
// 這是引擎內部形式；HTTP 解碼與 b64u 狀態轉換在 dto 層處理。
type PlayRequest struct {
	UID        string      `json:"uid"`                   // 唯一識別碼
	BoardName  string      `json:"board"`                 // 要玩的盤面
	GameId     spec.GID    `json:"gid"`                   // 盤面編號
	From       grid.Pos    `json:"from"`                  // 互換座標一
	To         grid.Pos    `json:"to"`                    // 互換座標二
	Session    int         `json:"session"`               // 第幾段會話
	StartState *StartState `json:"start_state,omitempty"` // 指定起始狀態（重連/回放）
}

// StartState 讓呼叫端把一局「接回」任意節點：
// Core 快照決定後續亂數序列，Board 快照決定起始盤面。
// 兩者皆可單獨省略。
type StartState struct {
	StartCoreSnap []byte `json:"core_snap,omitempty"`
	BoardSnap     []byte `json:"board_snap,omitempty"`
}

// HasPayload 回傳是否實際帶有任何可恢復狀態。
func (ss *StartState) HasPayload() bool {
	if ss == nil {
		return false
	}
	return len(ss.StartCoreSnap) != 0 || len(ss.BoardSnap) != 0
}
