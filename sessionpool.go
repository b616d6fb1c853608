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

package matchlab

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/matchlab/dto"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/core"
	"github.com/zintix-labs/matchlab/sdk/puzzle"
	"github.com/zintix-labs/matchlab/spec"
)

// SessionPool 專門管理「某一張棋盤」的所有 Session 實例。
// 它透過兩個通道管理 Session 生命週期：
//  1. pool：健康且可用的 Session，供 Play() 借出 / 歸還。
//  2. broken：在運作過程中發生錯誤或 panic 的壞 Session，送往此通道以便後續檢查、維修或丟棄。
//
// 若某個 Session 於執行期間發生 panic 或 fatal error，該 Session 會被送至 broken，並立即補上一個新 Session 以維持容量。
// 整體機制確保整個系統在高併發下仍保持穩定與可用性。
type SessionPool struct {
	boardName     string
	gameId        spec.GID
	bs            *spec.BoardSetting
	logic         *puzzle.LogicRegistry
	cf            core.PRNGFactory
	initSeed      int64
	seedMaker     *seedMaker
	pool          chan *Session // 可用 Session 的通道，用於取得和歸還
	broken        chan *Session // 壞掉 Session 的通道，用於送修或丟棄
	done          chan struct{} // 關閉訊號：關閉後不再允許借用/歸還/補充
	closeOnce     sync.Once     // 確保 Close() 只執行一次
	poolsize      int           // 健康 Session 數
	rebuild       atomic.Int32  // 重建 Session 次數
	inflight      atomic.Int32  // 使用中
	panics        atomic.Int32  // panic 次數
	fatals        atomic.Int32  // fatal 次數（Session 狀態不可信）
	closeReason   atomic.Value  // string: 關閉原因
	closeInflight atomic.Int32  // 關閉當下 inflight（快照）
	closeAvail    atomic.Int32  // 關閉當下 pool 可用數量（len(pool) 快照）
	closeBroken   atomic.Int32  // 關閉當下 broken backlog（len(broken) 快照）
}

// newSessionPool 建立指定棋盤的 Session 池。
//   - n: Session 數量（至少為 1）
//
// 初始化內容包含：
//   - 建立 pool（可用）與 broken（壞損）兩個 channel
//   - 預先建立 n 個 Session 並放入 pool，以便立即提供服務
func newSessionPool(n int, bs *spec.BoardSetting, reg *puzzle.LogicRegistry, cf core.PRNGFactory, seed int64) (*SessionPool, error) {
	n = max(1, n) // 確保數量至少為1
	p := &SessionPool{
		boardName: bs.GameName,
		gameId:    bs.GameID,
		bs:        bs,
		logic:     reg,
		cf:        cf,
		initSeed:  seed,
		seedMaker: newSeedMaker(seed),
		pool:      make(chan *Session, n),   // 建立有緩衝的 Session 通道，容量為 n
		broken:    make(chan *Session, 100), // 建立有緩衝的壞損通道，容量固定為100
		done:      make(chan struct{}),
		poolsize:  n,
		inflight:  atomic.Int32{},
		rebuild:   atomic.Int32{},
	}

	p.closeReason.Store("")
	p.closeInflight.Store(-1)
	p.closeAvail.Store(-1)
	p.closeBroken.Store(-1)

	// 上架 Session，將 n 個新 Session 放入池中
	for i := 0; i < n; i++ {
		s, err := newSessionWithSeed(bs, reg, cf, p.seedMaker.next(), false)
		if err != nil {
			return nil, err
		}
		p.pool <- s
	}
	return p, nil
}

// Close 進入關閉狀態：
//   - 通知之後所有 Play() 應該直接回error
//   - defer 歸還/補充時會觀察 done，避免對已關閉狀態進行 send
func (p *SessionPool) Close() {
	p.closeWithReason("closed")
}

// Closed 回報池是否已進入關閉狀態。
func (p *SessionPool) Closed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// closeWithReason 進入關閉狀態並記錄原因（thread-safe, reason 只會被寫入一次）。
// reason 建議使用固定字串或小枚舉字串，方便 metrics/telemetry 聚合。
func (p *SessionPool) closeWithReason(reason string) {
	p.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		p.closeReason.Store(reason)
		// 進入關閉狀態的瞬間做一次快照，方便外部觀測與故障排查。
		p.closeInflight.Store(p.inflight.Load())
		p.closeAvail.Store(int32(len(p.pool)))
		p.closeBroken.Store(int32(len(p.broken)))
		close(p.done)
	})
}

// isFatalErr 用於判斷本次錯誤是否代表「Session 狀態不可信」需要淘汰/補充。
//
// 原則：
//   - panic 一律視為 broken（由 caller 端的 defer/recover 處理）
//   - 一般的 request/validation 類錯誤不應淘汰 Session（例如 BadRequest）
//   - 只有錯誤型別本身明確宣告「fatal」時才視為 broken
func isFatalErr(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*errs.E); ok {
		if e.ErrLv == errs.Fatal {
			return true
		}
	}
	return false
}

func (p *SessionPool) Play(ctx context.Context, req *dto.PlayRequest) (res dto.PlayResult, err error) {
	var s *Session
	borrowed := false
	select {
	case <-p.done:
		// 先觀察是否已關閉：關閉直接回失敗，不阻塞
		return res, errs.NewFatal("session pool closed: " + p.ClosedReason())
	case <-ctx.Done():
		// 如果通知取消
		return res, errs.NewWarn("play canceled/timeout: " + ctx.Err().Error())
	case s = <-p.pool:
		// 有取出 Session
		borrowed = true
		p.inflight.Add(1)
		// ok
	}

	// 理論上不會拿到 nil；若發生代表 pool 有嚴重問題。
	if s == nil {
		return res, errs.NewFatal("session pool got nil session")
	}

	var isPanic bool

	defer func() {
		if borrowed {
			// 有借有還 再借不難
			p.inflight.Add(-1)
		}
		if r := recover(); r != nil {
			// 系統恢復
			isPanic = true
			p.panics.Add(1)
			err = errs.NewFatal(fmt.Sprintf("session %s panic : %v", s.boardName, r))
		}

		// 若已關閉，直接丟棄 Session（不歸還、不補充），避免 send 到已停止的系統。
		if p.Closed() {
			return
		}

		// 若發生 panic 或「致命錯誤」，表示 Session 狀態不可信，需要送修並補充。
		// 注意：一般的 request/validation error（例如 BadRequest）不應淘汰 Session。
		if isPanic || isFatalErr(err) {
			if !isPanic && isFatalErr(err) {
				p.fatals.Add(1)
			}
			// 1) 壞 Session 送入 broken（避免阻塞）
			select {
			case p.broken <- s:
			default:
				// broken 通道滿代表系統可能正在連續故障：進入關閉狀態讓上層接管維護。
				p.closeWithReason("overwhelmed_by_failures")
				// 若外層尚未有錯誤，補一個更明確的致命訊息
				if err == nil {
					err = errs.NewFatal("session pool overwhelmed by failures")
				}
				return
			}

			// 2) 補一個新 Session（維持容量）
			fresh, buildErr := newSessionWithSeed(p.bs, p.logic, p.cf, p.seedMaker.next(), false)
			p.rebuild.Add(1)
			if buildErr != nil {
				err = errs.NewFatal(fmt.Sprintf("session %s can not build", p.boardName))
				p.closeWithReason("rebuild_failed")
				return
			}

			// 補充前再看一次是否已關閉（避免並行 Close 後 send / block）
			select {
			case <-p.done:
				return
			case p.pool <- fresh:
				// ok
			}

			return
		}

		// 若有錯誤但非致命（多半是 request/validation 類錯誤），Session 仍然是健康的：歸還 pool 並把 err 原樣回傳。
		// 注意：此處不改寫 err。
		select {
		case <-p.done:
			return
		case p.pool <- s:
			// ok
		}
	}()

	// 執行 Session 的 Play 方法
	result, playErr := s.Play(req)
	if playErr != nil {
		err = playErr
		return
	}

	res = result
	return
}

func (sp *SessionPool) PoolSize() int {
	return sp.poolsize
}

func (sp *SessionPool) Inflight() int {
	return int(sp.inflight.Load())
}

func (sp *SessionPool) ReBuild() int {
	return int(sp.rebuild.Load())
}

func (sp *SessionPool) ClosedReason() string {
	if v := sp.closeReason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (sp *SessionPool) Panics() int {
	return int(sp.panics.Load())
}

func (sp *SessionPool) Fatals() int {
	return int(sp.fatals.Load())
}

// SessionPoolMetrics 是一期提供的「拉取式（pull）」觀測快照。
//
// 設計原則：
//   - 不綁任何 metrics/telemetry SDK（Prometheus / OpenTelemetry 等），由上層自己決定如何輸出。
//   - 欄位值以讀取當下為主；其中 Available/brokenBacklog 來自 len(chan)，在高併發下是「近似值」但足夠用於營運觀測。
//   - 關閉瞬間的快照（CloseInflight/CloseAvail/Closebroken）只會在 Close 時寫入一次，用於事後排查。
type SessionPoolMetrics struct {
	BoardName string   `json:"board_name"`
	GameID    spec.GID `json:"game_id"`

	PoolSize      int    `json:"pool_size"`      // 目標容量（初始化指定）
	Available     int    `json:"available"`      // 當下可借出的 Session 數（len(pool)）
	Inflight      int    `json:"inflight"`       // 使用中（借出未歸還）
	BrokenBacklog int    `json:"broken_backlog"` // broken channel 當下 backlog（len(broken)）
	Rebuild       int    `json:"rebuild"`        // 補充次數
	Panics        int    `json:"panics"`         // panic 次數
	Fatals        int    `json:"fatals"`         // fatal 次數
	Closed        bool   `json:"closed"`         // 是否已關閉
	CloseReason   string `json:"close_reason"`   // 關閉原因

	CloseInflight int `json:"close_inflight"` // Close() 當下 inflight（-1 表示尚未關閉）
	CloseAvail    int `json:"close_avail"`    // Close() 當下 available（-1 表示尚未關閉）
	Closebroken   int `json:"close_broken"`   // Close() 當下 broken backlog（-1 表示尚未關閉）
}

// Metrics 回傳一期的觀測快照；上層可用於 log、/metrics、或餵給 Prometheus/OTEL exporter。
func (sp *SessionPool) Metrics() SessionPoolMetrics {
	closed := sp.Closed()
	m := SessionPoolMetrics{
		BoardName:     sp.boardName,
		GameID:        sp.gameId,
		PoolSize:      sp.poolsize,
		Available:     len(sp.pool),
		Inflight:      int(sp.inflight.Load()),
		BrokenBacklog: len(sp.broken),
		Rebuild:       int(sp.rebuild.Load()),
		Panics:        int(sp.panics.Load()),
		Fatals:        int(sp.fatals.Load()),
		Closed:        closed,
		CloseReason:   sp.ClosedReason(),
		CloseInflight: int(sp.closeInflight.Load()),
		CloseAvail:    int(sp.closeAvail.Load()),
		Closebroken:   int(sp.closeBroken.Load()),
	}
	return m
}

// Available 回傳當下 pool 可用 Session 數（len(pool)）。在高併發下為近似值。
func (sp *SessionPool) Available() int {
	return len(sp.pool)
}
