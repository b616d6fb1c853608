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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/zintix-labs/matchlab/corefmt"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/buf"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

type PlayRequest struct {
	UID       string   `json:"uid"`     // 唯一識別碼
	BoardName string   `json:"board"`   // 要玩的盤面
	GameId    spec.GID `json:"gid"`     // 盤面編號
	From      grid.Pos `json:"from"`    // 互換座標一
	To        grid.Pos `json:"to"`      // 互換座標二
	Session   int      `json:"session"` // 第幾段會話

	StartState *StartState `json:"start_state,omitempty"` // 可選：由業務端帶入的引擎狀態（nil=新局；帶 start_b64u=回放/續玩）。
}

// DecodePlayRequest 會把 HTTP 請求解碼成 PlayRequest。
//
// 支援：
//   - GET：從 query string 讀取參數（uid/board/gid/from_x/from_y/to_x/to_y/session）。
//     注意：GET 建議僅用於「新局」或簡單測試；巢狀狀態（start_state）建議使用 POST。
//   - POST：從 JSON body 反序列化（支援 start_state）。
//
// StartState（start_state）語意：
//   - start_state 缺省 / 為 null / 為空物件：視為「新局」。
//   - start_state.start_b64u 有值：視為「回放（replay）/ 續玩（resume/continue）」：
//   - 回放：帶入當初記錄的 start_b64u 與盤面快照，可在相同輸入條件下重現該局結果。
//   - 續玩：帶入上一段回傳的 after_b64u 作為新的 start_b64u，以延續 RNG 流水。
//   - 引擎的輸入只接受 start_b64u（Start）；after_b64u 只會出現在回應（PlayState），請求端不得自行填寫 after。
//
// 注意：
//   - 這裡只負責「解碼（decode）」與基本型別轉換，不做任何遊戲合法性校驗；
//     合法性（例如該 GID 是否存在、座標是否在盤內）應由上層（Session/Runtime）決定。
//   - 為避免過大 body 影響服務，POST 會對 body 做大小限制（預設 1MiB）。
//   - POST 會開啟 DisallowUnknownFields()，對未知欄位採用嚴格拒絕，以避免靜默丟資料。
func DecodePlayRequest(r *http.Request) (*PlayRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}

	req := new(PlayRequest)

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.UID = q.Get("uid")
		req.BoardName = q.Get("board")

		if s := q.Get("gid"); s != "" {
			u, err := strconv.ParseUint(s, 10, 0)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid gid: %v", err))
			}
			req.GameId = spec.GID(u)
		}

		var perr error
		req.From.X, perr = queryInt(q.Get("from_x"), perr)
		req.From.Y, perr = queryInt(q.Get("from_y"), perr)
		req.To.X, perr = queryInt(q.Get("to_x"), perr)
		req.To.Y, perr = queryInt(q.Get("to_y"), perr)
		req.Session, perr = queryInt(q.Get("session"), perr)
		if perr != nil {
			return nil, errs.NewWarn(fmt.Sprintf("invalid query: %v", perr))
		}

		return req, nil

	case http.MethodPost:
		// 防止 body 過大（預設 1MiB）
		const maxBody = 1 << 20
		body := io.LimitReader(r.Body, maxBody)
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		return req, nil

	default:
		return nil, fmt.Errorf("method not allowed")
	}
}

// queryInt 串接式的 query 整數解析：前一步已失敗就直接傳遞錯誤。
func queryInt(s string, prev error) (int, error) {
	if prev != nil {
		return 0, prev
	}
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// StartState 是由業務端帶入的「引擎可恢復狀態」（可選）。
//
// 設計目標：
//   - 讓引擎維持純計算器（stateless / deterministic），而「可回放/可續玩」所需的狀態由業務端保存與回送。
//   - 新局：start_state 缺省即可；引擎會自行產生本局的 RNG 內部狀態並在回應中回傳 Start/After。
//   - 回放（Replay）：業務端帶入當初記錄的 start_b64u 與盤面快照，即可重現該局結果。
//   - 續玩（Resume/Continue）：業務端把上一段回應的 after_b64u 當作下一段的 start_b64u、
//     board_b64u 當作起始盤面送入，以延續同一張盤。
//
// 重要約束：
//   - Request 只允許提供 Start（start_b64u）；After（after_b64u）只會由引擎在 Response 回傳。
//   - board_b64u 為 opaque payload：業務端必須能 round-trip 保存與回送，不得自行解讀或修改內容。
type StartState struct {
	// StartCoreSnapB64U：RNG Core 的「起始快照」Base64URL（URL-safe base64）字串。
	//   - 缺省：視為新局（引擎自行起始 RNG）。
	//   - 有值：視為回放/續玩（引擎從該快照 restore RNG）。
	StartCoreSnapB64U string `json:"start_b64u,omitempty"`

	// BoardSnapB64U：盤面快照的 Base64URL 字串（引擎在回應 PlayState 中回傳的 board_b64u）。
	//   - 缺省：沿用該 Session 當前盤面（或新 Session 的初始盤面）。
	//   - 有值：引擎從該快照 restore 盤面後再執行本次換位。
	BoardSnapB64U string `json:"board_b64u,omitempty"`
}

func (ss *StartState) HasPayload() bool {
	if ss == nil {
		return false
	}
	return ss.StartCoreSnapB64U != "" || ss.BoardSnapB64U != ""
}

func (pr *PlayRequest) Parse() (*buf.PlayRequest, error) {
	var state *buf.StartState
	start := pr.StartState
	if start.HasPayload() {
		state = new(buf.StartState)
		if b64u := start.StartCoreSnapB64U; b64u != "" {
			snap, err := corefmt.DecodeBase64URL(b64u)
			if err != nil {
				return nil, errs.NewWarn("core snap decode failed " + err.Error())
			}
			state.StartCoreSnap = snap
		}
		if b64u := start.BoardSnapB64U; b64u != "" {
			snap, err := corefmt.DecodeBase64URL(b64u)
			if err != nil {
				return nil, errs.NewWarn("board snap decode failed " + err.Error())
			}
			state.BoardSnap = snap
		}
	}

	req := &buf.PlayRequest{
		UID:        pr.UID,
		BoardName:  pr.BoardName,
		GameId:     pr.GameId,
		From:       pr.From,
		To:         pr.To,
		Session:    pr.Session,
		StartState: state,
	}
	return req, nil
}
