package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/matchlab/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// StatReport 盤面統計報告
type StatReport struct {
	Summary *SummaryReport `json:"Summary"`
	Clear   *ClearReport   `json:"Clear"`
	Dist    *DistReport    `json:"Dist"`
	Player  *PlayerReport  `json:"Player,omitzero"`
	isDone  bool
}

type SummaryReport struct {
	BoardName     string   `json:"BoardName"`
	GameId        spec.GID `json:"GameId"`
	Rounds        int      `json:"Rounds"`
	Swapped       int      `json:"Swapped"`
	SwapRate      float64  `json:"SwapRate"`
	TotalCleared  int      `json:"TotalCleared"`
	TotalCascades int      `json:"TotalCascades"`
	AvgCleared    float64  `json:"AvgCleared"`
	ClearCI       CI       `json:"ClearCI"`
	Std           float64  `json:"Std"`
	Cv            float64  `json:"Cv"`
	BigCascades   int      `json:"BigCascades"`
	BigCascRate   float64  `json:"BigCascRate"`
	NoClearRounds int      `json:"NoClearRounds"`
	HitRate       float64  `json:"HitRate"`
}

// ClearReport 消除過程統計
//
// 紀錄時只處理int，避免轉型成本。紀錄完成後Done()會將結果整理填入
type ClearReport struct {
	ClearedSqSum int `json:"ClearedSqSum"` // 平方和
	MaxCleared   int `json:"MaxCleared"`
	MaxCascades  int `json:"MaxCascades"`
}

// DistReport 消除數/連鎖步數落點統計
type DistReport struct {
	ClearBucket    []string  `json:"ClearBucket"`
	ClearedCollect []int     `json:"ClearedCollect"`
	ClearedDist    []float64 `json:"ClearedDist"`
	CascadeBucket  []string  `json:"CascadeBucket"`
	CascadeCollect []int     `json:"CascadeCollect"`
	CascadeDist    []float64 `json:"CascadeDist"`
}

// PlayerReport 玩家統計
//
// 需使用PlayerRecord 才會統計
type PlayerReport struct {
	MoveBudget  int  `json:"MoveBudget"`
	MovesUsed   int  `json:"MovesUsed"`
	Cleared     int  `json:"Cleared"`
	Goal        int  `json:"Goal"`
	GoalReached bool `json:"GoalReached"`
	OutOfMoves  bool `json:"OutOfMoves"`
	Alive       bool `json:"Alive"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 將累積計數轉換為最終統計結果並鎖定 isDone 標記。
//
// 所有統計過程因為性能原因只處理int的紀錄，所以統計完成後
//
// 請使用 Done 來通知報表統計已經完成，可以一次性計算統計結果
func (s *StatReport) Done() {
	if s.isDone {
		return
	}
	// Summary
	s.Summary.AvgCleared = s.AvgCleared()
	s.Summary.ClearCI = s.Ci()
	s.Summary.Std = s.Std()
	s.Summary.Cv = s.Cv()
	if s.Summary.Rounds > 0 {
		rf := float64(s.Summary.Rounds)
		s.Summary.SwapRate = float64(s.Summary.Swapped) / rf
		s.Summary.BigCascRate = float64(s.Summary.BigCascades) / rf
		s.Summary.HitRate = 1.0 - float64(s.Summary.NoClearRounds)/rf
	}

	// Player
	s.Player.Alive = !(s.Player.GoalReached || s.Player.OutOfMoves)

	s.isDone = true
}

// AvgCleared 回傳單局平均消除數（總消除 / 總局數）
func (s *StatReport) AvgCleared() float64 {
	if s.Summary.Rounds == 0 {
		return 0
	}
	return float64(s.Summary.TotalCleared) / float64(s.Summary.Rounds)
}

// Std 回傳單局消除數的標準差
func (s *StatReport) Std() float64 {
	if s.Summary.Rounds < 2 {
		return 0
	}
	rounds := float64(s.Summary.Rounds)

	sum := float64(s.Summary.TotalCleared)
	variance := (float64(s.Clear.ClearedSqSum) - sum*sum/rounds) / (rounds - 1)

	if variance < 0 {
		variance = 0
	}

	std := math.Sqrt(variance)
	return std
}

// Cv 回傳單局消除數的變異係數
func (s *StatReport) Cv() float64 {
	avg := s.AvgCleared()
	std := s.Std()
	if avg <= 0 {
		return 0
	}
	return (std / avg)
}

// Ci 回傳(95% 單局平均消除數)信賴區間
func (s *StatReport) Ci() CI {
	avg := s.AvgCleared()
	std := s.Std()
	se := float64(0)
	if s.Summary.Rounds > 1 {
		se = std / math.Sqrt(float64(s.Summary.Rounds))
	}
	ci := CI{
		Lo: max(avg-1.96*se, 0.0),
		Hi: avg + 1.96*se,
	}
	return ci
}

func (s *StatReport) WriteWith(w io.Writer, rep StatReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

func (s *StatReport) StdOut(ut time.Duration) {
	formatDuration(ut, s.Summary.Rounds)
	sk, sm := s.fmtBasic()
	str := fmtTable(s.Summary.BoardName, sk, sm)
	fmt.Println(str)
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, plays int) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	pps := int(float64(plays) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\npps : %d plays/sec\n", sec, pps)
		return
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		s = s % 60
		p.Printf("used: %dm %ds\npps : %d plays/sec\n", m, s, pps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\npps : %d plays/sec\n", h, m, s, pps)
}

// StdOut

func (s *StatReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	basic := map[string]string{
		"Board Name":     p.Sprintf("%s", s.Summary.BoardName),
		"Game ID":        fmt.Sprintf("%d", s.Summary.GameId),
		"Total Rounds":   p.Sprintf("%d", s.Summary.Rounds),
		"Swap Rate":      p.Sprintf("%.2f %%", 100.0*s.Summary.SwapRate),
		"Total Cleared":  p.Sprintf("%d", s.Summary.TotalCleared),
		"Avg Cleared":    p.Sprintf("%.3f", s.Summary.AvgCleared),
		"Cleared 95% CI": p.Sprintf("[%.3f,%.3f]", s.Summary.ClearCI.Lo, s.Summary.ClearCI.Hi),
		"Max Cleared":    p.Sprintf("%d", s.Clear.MaxCleared),
		"Max Cascades":   p.Sprintf("%d", s.Clear.MaxCascades),
		"Big Cascades":   p.Sprintf("%d", s.Summary.BigCascades),
		"NoClear Rounds": p.Sprintf("%d", s.Summary.NoClearRounds),
		"Hit Rate":       p.Sprintf("%.2f %%", 100.0*s.Summary.HitRate),
		"STD":            p.Sprintf("%.3f", s.Summary.Std),
		"CV":             p.Sprintf("%.3f", s.Summary.Cv),
	}
	keys := []string{"Board Name", "Game ID", "Total Rounds", "Swap Rate", "Total Cleared", "Avg Cleared", "Cleared 95% CI", "Max Cleared", "Max Cascades", "Big Cascades", "NoClear Rounds", "Hit Rate", "STD", "CV"}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
