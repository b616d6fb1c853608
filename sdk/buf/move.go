package buf

import (
	"github.com/zintix-labs/matchlab/sdk/grid"
)

const capMoveGrow int = 64

// Move 是一次 trickle 產生的單格移動（from -> to）。
type Move struct {
	From grid.Pos `json:"from"`
	To   grid.Pos `json:"to"`
}

// MoveLog 是可重用的移動紀錄緩衝。
//
// Trickle 熱路徑會重複使用同一個 MoveLog 避免每次配置；
// Moves() 回傳的切片只在下一次 Reset 之前有效，呼叫端若要保留
// 請先拷貝（或轉成 DTO）。
type MoveLog struct {
	moves []Move
}

// NewMoveLog 建立 MoveLog 並預先配置基本容量。
func NewMoveLog() *MoveLog {
	return &MoveLog{moves: make([]Move, 0, capMoveGrow)}
}

// Reset 清空紀錄，保留已配置容量。
func (l *MoveLog) Reset() {
	l.moves = l.moves[:0]
}

// Record 依執行順序追加一筆移動。
func (l *MoveLog) Record(from, to grid.Pos) {
	l.moves = append(l.moves, Move{From: from, To: to})
}

// Moves 回傳目前累積的移動列表（內部切片，Reset 前有效）。
func (l *MoveLog) Moves() []Move {
	return l.moves
}

// Len 回傳目前累積的移動數。
func (l *MoveLog) Len() int {
	return len(l.moves)
}

// Copy 回傳移動列表的獨立拷貝，供需要跨次保留的呼叫端使用。
func (l *MoveLog) Copy() []Move {
	out := make([]Move, len(l.moves))
	copy(out, l.moves)
	return out
}
