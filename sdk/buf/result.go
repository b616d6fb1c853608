package buf

import (
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

const capStepGrow int = 16

// Fill 是補盤階段生出的一顆新 piece。
type Fill struct {
	Pos   grid.Pos     `json:"pos"`
	Piece spec.PieceID `json:"piece"`
}

// CascadeStep 是一次連鎖中的單一步：一組命中、其後的重力位移與補盤。
// 內容以區段索引指向 PlayResult 的扁平緩衝，熱路徑零配置。
type CascadeStep struct {
	Pattern string       // 命中的圖樣名稱
	Piece   spec.PieceID // 命中的 piece type
	Rank    int          // 圖樣優先級

	HitsStart, HitsLen   int
	MovesStart, MovesLen int
	FillsStart, FillsLen int
}

// PlayResult 保存一次完整換位（含全部連鎖）的結果。
//
// 與 PlayRequest 一樣是可重用 buffer：每次 play 會 Reset 後覆寫。
// Hits/Moves/Fills 是扁平緩衝，CascadeStep 以 start/len 區段指進來；
// 需要跨 play 保留內容時請先轉 DTO 或自行拷貝。
type PlayResult struct {
	BoardName string
	GameID    spec.GID
	Rule      spec.RuleKey

	From    grid.Pos
	To      grid.Pos
	Swapped bool // 換位是否被規則鏈放行

	TotalCleared int // 全部連鎖消掉的 piece 數
	Steps        []CascadeStep

	Hits  []grid.Pos // 所有步的命中座標（扁平）
	Moves []Move     // 所有步的重力位移（扁平）
	Fills []Fill     // 所有步的補盤（扁平）

	State      *PlayState
	ExtendSnap any // 邏輯模組的擴充快照（RuleKey 對應的 renderer 負責轉出）
	IsEnd      bool
}

// PlayState 是可回放狀態：換位前後的 Core 快照與結束盤面快照。
type PlayState struct {
	StartCoreSnap []byte
	AfterCoreSnap []byte
	BoardSnap     []byte
}

// NewPlayResult 建立指定盤面的 PlayResult 實體，並預先配置基本容量。
func NewPlayResult(bs *spec.BoardSetting) *PlayResult {
	cells := bs.GridSetting.CellCount
	return &PlayResult{
		BoardName: bs.GameName,
		GameID:    bs.GameID,
		Rule:      bs.RuleKey,
		Steps:     make([]CascadeStep, 0, capStepGrow),
		Hits:      make([]grid.Pos, 0, cells),
		Moves:     make([]Move, 0, cells),
		Fills:     make([]Fill, 0, cells),
		State:     &PlayState{},
	}
}

// Reset 重置累積資料，保留已配置的內部切片容量。
func (r *PlayResult) Reset() {
	r.From = grid.Pos{}
	r.To = grid.Pos{}
	r.Swapped = false
	r.TotalCleared = 0
	r.Steps = r.Steps[:0]
	r.Hits = r.Hits[:0]
	r.Moves = r.Moves[:0]
	r.Fills = r.Fills[:0]
	r.State.StartCoreSnap = nil
	r.State.AfterCoreSnap = nil
	r.State.BoardSnap = nil
	r.ExtendSnap = nil
	r.IsEnd = false
}

// AddStep 記錄一步連鎖。hits/moves/fills 會被拷貝進扁平緩衝，
// 呼叫端可以安全重用自己的切片。
func (r *PlayResult) AddStep(pattern string, piece spec.PieceID, rank int, hits []grid.Pos, moves []Move, fills []Fill) {
	if r.IsEnd {
		panic("play result is already end, but still adding steps")
	}
	step := CascadeStep{
		Pattern:    pattern,
		Piece:      piece,
		Rank:       rank,
		HitsStart:  len(r.Hits),
		HitsLen:    len(hits),
		MovesStart: len(r.Moves),
		MovesLen:   len(moves),
		FillsStart: len(r.Fills),
		FillsLen:   len(fills),
	}
	r.Hits = append(r.Hits, hits...)
	r.Moves = append(r.Moves, moves...)
	r.Fills = append(r.Fills, fills...)
	r.TotalCleared += len(hits)
	r.Steps = append(r.Steps, step)
}

// End : 結束這次 play。
func (r *PlayResult) End() {
	r.IsEnd = true
}

// Cascades 回傳連鎖步數。
func (r *PlayResult) Cascades() int { return len(r.Steps) }

// StepHits 回傳第 i 步的命中座標區段（指向內部緩衝，唯讀）。
func (r *PlayResult) StepHits(i int) []grid.Pos {
	s := &r.Steps[i]
	return r.Hits[s.HitsStart : s.HitsStart+s.HitsLen]
}

// StepMoves 回傳第 i 步的重力位移區段（指向內部緩衝，唯讀）。
func (r *PlayResult) StepMoves(i int) []Move {
	s := &r.Steps[i]
	return r.Moves[s.MovesStart : s.MovesStart+s.MovesLen]
}

// StepFills 回傳第 i 步的補盤區段（指向內部緩衝，唯讀）。
func (r *PlayResult) StepFills(i int) []Fill {
	s := &r.Steps[i]
	return r.Fills[s.FillsStart : s.FillsStart+s.FillsLen]
}

// ExtendResult 定義邏輯模組擴充資訊必須具備的行為。
//
// 這強制規範開發者實作 Reset 和 Snapshot 機制，確保 Sim/Server 模式正確運作。
type ExtendResult interface {
	// Reset 需要做到「完全清空到初始狀態」：
	//   - 由邏輯模組自行決定要不要重用記憶體，以避免 GC 負擔。
	//   - 保證下一次 Snapshot 不會帶著上一局遺留狀態。
	Reset()
	// Snapshot 建立快照。
	//   - 呼叫端一律只呼叫 Snapshot，不需要知道 isSim 的存在。
	//   - 實作者可以在內部判斷 isSim 以回傳 nil（觸發 JSON omitempty），
	//     省去深拷貝 CPU 成本與流量。
	Snapshot() any
}

// NoExtend 是「無附加資料」的佔位型別：
// 讓只有盤面與連鎖資訊的邏輯模組以最小成本完成註冊。
type NoExtend struct{}

func (e *NoExtend) Reset() {}

// Snapshot 永遠回傳 nil，JSON 輸出時該欄位會被完全省略。
func (e *NoExtend) Snapshot() any {
	return nil
}
