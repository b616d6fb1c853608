package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/matchlab/recorder"
	"github.com/zintix-labs/matchlab/sdk/buf"
	"github.com/zintix-labs/matchlab/stats"
)

type DistStat struct {
	// PlayRequest
	BoardName  string `json:"board_name"`
	MoveBudget int    `json:"move_budget"`
	Goal       int    `json:"goal"`
	// ResultRecord
	Cleareds []int  `json:"cleareds"`
	Cascades []int  `json:"cascades"`
	Swappeds []bool `json:"swappeds"`
}

func Stat(w http.ResponseWriter, r *http.Request) {
	// Post方法限定
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// 嘗試解析
	dst := new(DistStat)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// 對齊局數
	round := min(len(dst.Cleareds), len(dst.Cascades), len(dst.Swappeds))
	if round < 1 {
		http.Error(w, "round must > 0", http.StatusBadRequest)
		return
	}

	// 繞過New方法，自己構造 PlayRecorder (否則會出錯)
	rec := &recorder.PlayRecorder{
		BoardName:  dst.BoardName,
		MoveBudget: dst.MoveBudget,
		Goal:       dst.Goal,
		Basic:      new(recorder.BasicRecord),
		Dist:       new(recorder.DistRecord),
		Player:     new(recorder.PlayerRecord),
	}
	rec.Dist.Bucket = stats.Buckets.Get()
	rec.Dist.ClearedCollect = make([]int, len(stats.Buckets.ClearBucketStr()))
	rec.Dist.CascadeCollect = make([]int, len(stats.CascadeBucketStr()))

	// 繞過New方法，自己構造 PlayResult (否則會出錯)
	pr := &buf.PlayResult{
		BoardName: dst.BoardName,
		Steps:     make([]buf.CascadeStep, 0, 16),
	}
	for i := 0; i < round; i++ {
		// 賦值 play result
		pr.TotalCleared = dst.Cleareds[i]
		pr.Swapped = dst.Swappeds[i]
		for range dst.Cascades[i] {
			pr.Steps = append(pr.Steps, buf.CascadeStep{})
		}
		// 紀錄
		rec.Record(pr)
		// 重置pr
		pr.Steps = pr.Steps[:0] // 清空長度
	}
	st := rec.Done()
	st.Done()
	st.Summary.BoardName = dst.BoardName
	if err := json.NewEncoder(w).Encode(st); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
}
