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
	"crypto/rand"
	"encoding/json"
	"math"
	"math/big"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/matchlab/corefmt"
	"github.com/zintix-labs/matchlab/dto"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/board"
	"github.com/zintix-labs/matchlab/sdk/buf"
	"github.com/zintix-labs/matchlab/sdk/core"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/sdk/puzzle"
	"github.com/zintix-labs/matchlab/spec"
)

// Session 封裝一張「可對外提供 Play」的盤面。
//
// 你可以把 Session 視為 Game 的「外殼（shell）」：
//   - 對外：提供 Play 入口（HTTP/模擬器通常只操作 Session）。
//   - 對內：持有 RNG（Core）與真正執行盤面邏輯的核心（sdk/puzzle.Game）。
//
// 並發語意：
//   - Session 預設不是 lock-free 結構；它內含可重用的 request/result buffer（熱路徑），因此同一個 Session 不應被多 goroutine 同時 Play。
//   - 若要併發模擬，由更高層建立多個 Session 分散到不同 worker 並管理其生命週期。
//
// Buffer 語意（非常重要，影響 DX 與正確性）：
//   - PlayRequest / PlayResult 會被重用（避免 GC），每次 Play 會覆寫內容。
//   - 你若需要在 Play 後保留結果，請在離開臨界區前轉成 DTO（或自行 copy 你需要的欄位）。
//
// initseed 用於記錄出生時的 seed（追溯/重現的基礎資訊）；完整審計仍以 Core 的 Snapshot/Restore 為準。
type Session struct {
	boardName   string           // 盤面名稱（來自 BoardSetting.GameName，主要用於觀測/日誌）
	gameId      spec.GID         // 盤面 ID（Catalog 內唯一；用於路由與查表）
	core        *core.Core       // RNG 核心（PRNG + Snapshot/Restore 合約；熱路徑會頻繁取樣）
	gh          *puzzle.Game     // 盤面執行核心（規則邏輯入口；由 LogicRegistry + BoardSetting 組裝）
	PlayRequest *buf.PlayRequest // 可重用的請求 buffer（每次 Play 會覆寫/填充）
	PlayResult  *buf.PlayResult  // 可重用的結果 buffer（熱路徑；每次 Play 會覆寫）
	mu          sync.Mutex       // 防併發鎖：保護可重用 buffers 與核心狀態一致性
	initseed    int64            // 出生 seed（便於追溯；完整重現請用 Snapshot/Restore）
}

// newSession 以「隨機 seed」建立 Session。
//
// 這裡使用 crypto/rand 產生 seed 是為了：
//   - 在對外服務情境避免可預測 RNG
//   - 同時保留可追溯性（seed 會被記錄在 Session.initseed）
//
// seed 只保證了新建 Session 的起點，如果需要在任意局後將盤面"重設"到任意 Core 節點，請利用 Snapshot Restore 來操作
func newSession(bs *spec.BoardSetting, reg *puzzle.LogicRegistry, cf core.PRNGFactory, isSim bool) (*Session, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return nil, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return newSessionWithSeed(bs, reg, cf, seed.Int64(), isSim)
}

// newSessionWithSeed 以指定 seed 建立 Session。
//
// 這是最常用的「可重現」入口：同一份 BoardSetting + 同一個 seed，應能得到一致的隨機序列（取決於 Core 實作）。
//
// 建立流程（概念）：
//  1. core.New(cf.New(seed)) 建出 RNG 核心
//  2. puzzle.NewGame(bs, reg, core, isSim) 依設定 + registry 建出盤面執行核心
//  3. 初始化 Session 需要的 buffers（PlayRequest/PlayResult）
func newSessionWithSeed(bs *spec.BoardSetting, reg *puzzle.LogicRegistry, cf core.PRNGFactory, seed int64, isSim bool) (*Session, error) {
	s := &Session{
		boardName:   bs.GameName,
		gameId:      bs.GameID,
		core:        core.New(cf.New(seed)),
		gh:          nil,
		PlayRequest: nil,
		PlayResult:  nil,
		initseed:    seed,
	}
	var err error
	s.gh, err = puzzle.NewGame(bs, reg, s.core, isSim)
	if err != nil {
		return nil, err
	}
	s.PlayRequest = &buf.PlayRequest{}
	s.PlayResult = s.gh.PlayResult
	return s, nil
}

// Play 為主要公開入口，會驗證換位請求，執行盤面邏輯並回傳 Play 結果。
func (s *Session) Play(r *dto.PlayRequest) (dto.PlayResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. 校驗請求合法性
	if err := s.valid(r); err != nil {
		return dto.PlayResult{}, err
	}
	// 2. parse dto to inner play request
	req, err := r.Parse()
	if err != nil {
		return dto.PlayResult{}, err
	}

	// 3. get start snapshot
	startsnap, err := s.SnapshotCore()
	if err != nil {
		return dto.PlayResult{}, errs.NewFatal("before snapshot error " + err.Error())
	}
	rem := startsnap
	if req.StartState != nil && len(req.StartState.StartCoreSnap) != 0 {
		startsnap = req.StartState.StartCoreSnap
		if err := s.RestoreCore(req.StartState.StartCoreSnap); err != nil {
			return dto.PlayResult{}, errs.NewWarn("restore core err " + err.Error())
		}
	}

	// 3.5. 回放/續玩：外部帶入盤面快照時，先保留本機盤面再 restore
	var remBoard *board.StateExport
	if req.StartState != nil && len(req.StartState.BoardSnap) != 0 {
		remBoard = s.gh.ExportBoardState()
		e, derr := decodeBoardSnap(req.StartState.BoardSnap)
		if derr != nil {
			return dto.PlayResult{}, derr
		}
		if rerr := s.gh.RestoreBoardState(e); rerr != nil {
			return dto.PlayResult{}, rerr
		}
	}

	// 4. get inner playResult
	pr := s.gh.GetResult(req)

	// 5. get after snapshot
	aftersnap, err := s.SnapshotCore()
	if err != nil {
		if e := s.RestoreCore(rem); e != nil {
			return dto.PlayResult{}, errs.NewFatal("fall back err " + e.Error())
		}
		return dto.PlayResult{}, errs.NewWarn("after snapshot error " + err.Error())
	}
	state := pr.State
	state.StartCoreSnap = startsnap
	state.AfterCoreSnap = aftersnap

	// 5.5. 結束盤面快照：業務端把它當作下一段的 board_b64u 就能續玩
	boardsnap, err := encodeBoardSnap(s.gh.ExportBoardState())
	if err != nil {
		return dto.PlayResult{}, errs.NewFatal("board snapshot error " + err.Error())
	}
	state.BoardSnap = boardsnap

	// 6. restore if needed
	if req.StartState != nil && len(req.StartState.StartCoreSnap) != 0 {
		if err := s.RestoreCore(rem); err != nil {
			return dto.PlayResult{}, errs.NewFatal("restore core back err " + err.Error())
		}
	}
	if remBoard != nil {
		if err := s.gh.RestoreBoardState(remBoard); err != nil {
			return dto.PlayResult{}, errs.NewFatal("restore board back err " + err.Error())
		}
	}

	// 7. dto
	return dto.NewPlayResultDTO(pr)
}

// PlayInternal 直接取得內部 PlayResult；常用於模擬器或測試
//
// 請勿在正式環境使用
//
// 此行為跳過所有檢查，直接在當前盤面上嘗試 from -> to 的換位
func (s *Session) PlayInternal(from, to grid.Pos) *buf.PlayResult {
	s.PlayRequest.From = from
	s.PlayRequest.To = to
	s.PlayRequest.StartState = nil
	return s.gh.GetResult(s.PlayRequest)
}

// Game 提供內部盤面核心的存取；模擬器會直接觀察盤面挑選合法換位。
func (s *Session) Game() *puzzle.Game {
	return s.gh
}

func (s *Session) valid(req *dto.PlayRequest) error {
	if s.gameId != req.GameId {
		return errs.NewWarn("game id is not matched")
	}
	if s.boardName != req.BoardName {
		return errs.NewWarn("board name is not matched")
	}
	// 盤面層對出界座標是 panic 語意，所以入口必須先擋掉
	cols, rows := s.gh.Board.Cols(), s.gh.Board.Rows()
	if !inBounds(req.From, cols, rows) || !inBounds(req.To, cols, rows) {
		return errs.NewWarn("swap position out of board")
	}
	if req.Session < 0 {
		return errs.NewWarn("invalid session index")
	}
	return nil
}

func inBounds(p grid.Pos, cols, rows int) bool {
	return p.X >= 0 && p.X < cols && p.Y >= 0 && p.Y < rows
}

// SnapshotCore 取得Core狀態暫存 當前僅提供取得Core狀態
//
// 之後要實作斷線重連時候提供checkpoint加入必要恢復資訊時實作
// SnapShot() <- 保留語意
func (s *Session) SnapshotCore() ([]byte, error) {
	return s.core.Snapshot()
}

// RestoreCore 恢復Core狀態暫存 當前僅提供恢復Core狀態
//
// 之後要實作斷線重連時候提供checkpoint加入必要恢復資訊時實作
// Restore() <- 保留語意
func (s *Session) RestoreCore(src []byte) error {
	return s.core.Restore(src)
}

// ============================================================
// ** 盤面快照編解碼 **
// ============================================================

// 盤面快照的 wire 格式：blob frame 包住 zstd 壓縮後的 StateExport JSON。
// 對業務端而言是 opaque payload，只要求能 round-trip。
// 解壓上限，擋掉惡意構造的壓縮炸彈。
const maxBoardSnapBytes = 8 << 20

var (
	boardSnapEnc, _ = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	boardSnapDec, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxBoardSnapBytes))
)

func encodeBoardSnap(e *board.StateExport) ([]byte, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, errs.Wrap(err, "marshal board state failed")
	}
	compressed := boardSnapEnc.EncodeAll(raw, nil)
	return corefmt.EncodeBlobFrame(compressed), nil
}

func decodeBoardSnap(snap []byte) (*board.StateExport, error) {
	compressed, err := corefmt.DecodeBlobFrame(snap)
	if err != nil {
		return nil, errs.NewWarn("board snap frame decode failed " + err.Error())
	}
	raw, err := boardSnapDec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, errs.NewWarn("board snap decompress failed " + err.Error())
	}
	var e board.StateExport
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, errs.NewWarn("board snap unmarshal failed " + err.Error())
	}
	return &e, nil
}
