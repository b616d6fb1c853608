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

package recorder

import (
	"fmt"

	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/buf"
	"github.com/zintix-labs/matchlab/spec"
	"github.com/zintix-labs/matchlab/stats"
)

// PlayRecorder 盤面紀錄員
//
// PlayRecorder 負責紀錄每局換位結果，並透過Done輸出統計報表
type PlayRecorder struct {
	BoardName  string
	GameId     spec.GID
	MoveBudget int
	Goal       int
	Basic      *BasicRecord
	Dist       *DistRecord
	Player     *PlayerRecord
}

// BasicRecord 基本盤面資料紀錄
type BasicRecord struct {
	TotalCleared  int
	TotalCascades int
	ClearedSqSum  int // 平方和
	Swapped       int
	BigCascades   int // 兩步以上連鎖的局數
	MaxCleared    int
	MaxCascades   int
	Rounds        int
}

// DistRecord 消除數/連鎖步數區間落點統計
//
// 紀錄時紀錄int資訊
type DistRecord struct {
	Bucket         *stats.ClearBucket
	ClearedCollect []int
	CascadeCollect []int
}

// PlayerRecord 玩家統計
type PlayerRecord struct {
	moveBudget int
	goal       int
	MovesUsed  int
	Cleared    int
	Reached    bool
	Exhausted  bool
}

func NewPlayRecorder(name string, id spec.GID, moveBudget int, goal int) (*PlayRecorder, error) {
	s := new(PlayRecorder)

	if moveBudget < 0 {
		return s, errs.NewFatal(fmt.Sprintf("move budget must not be negative, got: %d", moveBudget))
	}
	if goal < 0 {
		return s, errs.NewFatal(fmt.Sprintf("goal must not be negative, got: %d", goal))
	}
	// 通過valid
	s.BoardName = name
	s.GameId = id
	s.MoveBudget = moveBudget
	s.Goal = goal
	s.Basic = new(BasicRecord)
	s.Dist = newDistRecord()
	s.Player = newPlayerRecord(moveBudget, goal)

	return s, nil
}

func MergePlayRecorder(r []*PlayRecorder) (*PlayRecorder, error) {
	r0 := r[0]
	s, err := NewPlayRecorder(r0.BoardName, r0.GameId, r0.MoveBudget, r0.Goal)
	if err != nil {
		return s, err
	}
	for _, v := range r {
		if v.BoardName != r0.BoardName {
			return s, errs.NewFatal("merge play record err : different board name")
		}
		if v.MoveBudget != r0.MoveBudget {
			return s, errs.NewFatal("merge play record err : different move budget")
		}
		if v.Goal != r0.Goal {
			return s, errs.NewFatal("merge play record err : different goal")
		}
		s.Basic.TotalCleared += v.Basic.TotalCleared
		s.Basic.TotalCascades += v.Basic.TotalCascades
		s.Basic.ClearedSqSum += v.Basic.ClearedSqSum
		s.Basic.Swapped += v.Basic.Swapped
		s.Basic.BigCascades += v.Basic.BigCascades
		s.Basic.Rounds += v.Basic.Rounds
		if v.Basic.MaxCleared > s.Basic.MaxCleared {
			s.Basic.MaxCleared = v.Basic.MaxCleared
		}
		if v.Basic.MaxCascades > s.Basic.MaxCascades {
			s.Basic.MaxCascades = v.Basic.MaxCascades
		}

		// 整合Dist
		for i := range len(v.Dist.ClearedCollect) {
			s.Dist.ClearedCollect[i] += v.Dist.ClearedCollect[i]
		}
		for i := range len(v.Dist.CascadeCollect) {
			s.Dist.CascadeCollect[i] += v.Dist.CascadeCollect[i]
		}
	}
	return s, nil
}

// Record 以單次 PlayResult 更新基本統計（不含玩家歷程）
func (s *PlayRecorder) Record(pr *buf.PlayResult) {
	s.recordBasic(pr) // Basic
	s.recordDist(pr)  // Dist
}

// RecordWithPlayer 在 Record 的基礎上，進一步更新玩家步數／消除進度，並回傳玩家是否停止遊戲。
func (s *PlayRecorder) RecordWithPlayer(pr *buf.PlayResult) bool {
	if s.Player.MovesUsed >= s.Player.moveBudget {
		return true
	}
	s.recordBasic(pr)
	s.recordDist(pr)
	r := s.recordPlayer(pr)
	return r
}

func (s *PlayRecorder) Done() *stats.StatReport {
	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			BoardName:     s.BoardName,
			GameId:        s.GameId,
			Rounds:        s.Basic.Rounds,
			Swapped:       s.Basic.Swapped,
			TotalCleared:  s.Basic.TotalCleared,
			TotalCascades: s.Basic.TotalCascades,
			BigCascades:   s.Basic.BigCascades,
			NoClearRounds: s.Dist.ClearedCollect[0],
		},
		Clear: &stats.ClearReport{
			ClearedSqSum: s.Basic.ClearedSqSum,
			MaxCleared:   s.Basic.MaxCleared,
			MaxCascades:  s.Basic.MaxCascades,
		},
		Dist: &stats.DistReport{
			ClearBucket:    stats.Buckets.ClearBucketStr(),
			ClearedCollect: s.Dist.ClearedCollect,
			CascadeBucket:  stats.CascadeBucketStr(),
			CascadeCollect: s.Dist.CascadeCollect,
			ClearedDist:    nil,
			CascadeDist:    nil,
		},
		Player: &stats.PlayerReport{
			MoveBudget:  s.Player.moveBudget,
			MovesUsed:   s.Player.MovesUsed,
			Cleared:     s.Player.Cleared,
			Goal:        s.Player.goal,
			GoalReached: s.Player.Reached,
			OutOfMoves:  s.Player.Exhausted,
		},
	}

	rf := float64(report.Summary.Rounds)
	if rf > 0 {
		clearedF := make([]float64, len(report.Dist.ClearedCollect))
		for i := range report.Dist.ClearedCollect {
			clearedF[i] = float64(report.Dist.ClearedCollect[i]) / rf
		}
		cascadeF := make([]float64, len(report.Dist.CascadeCollect))
		for i := range report.Dist.CascadeCollect {
			cascadeF[i] = float64(report.Dist.CascadeCollect[i]) / rf
		}
		report.Dist.ClearedDist = clearedF
		report.Dist.CascadeDist = cascadeF
	}

	return report
}

func (s *PlayRecorder) recordBasic(pr *buf.PlayResult) {
	c := pr.TotalCleared
	steps := pr.Cascades()

	// Basic
	s.Basic.TotalCleared += c
	s.Basic.TotalCascades += steps
	s.Basic.ClearedSqSum += c * c
	if pr.Swapped {
		s.Basic.Swapped++
	}
	if steps >= 2 {
		s.Basic.BigCascades++
	}
	if c > s.Basic.MaxCleared {
		s.Basic.MaxCleared = c
	}
	if steps > s.Basic.MaxCascades {
		s.Basic.MaxCascades = steps
	}
	s.Basic.Rounds++
}

func (s *PlayRecorder) recordDist(pr *buf.PlayResult) {
	d := s.Dist
	d.ClearedCollect[d.Bucket.Index(pr.TotalCleared)]++
	d.CascadeCollect[stats.CascadeIndex(pr.Cascades())]++
}

func (s *PlayRecorder) recordPlayer(pr *buf.PlayResult) bool {
	p := s.Player

	p.MovesUsed++
	p.Cleared += pr.TotalCleared

	// 更新結局
	leave := false
	if p.Cleared >= p.goal {
		p.Reached = true
		leave = true
	}
	if p.MovesUsed >= p.moveBudget {
		p.Exhausted = true
		leave = true
	}
	return leave
}

func newDistRecord() *DistRecord {
	d := new(DistRecord)
	d.Bucket = stats.Buckets.Get()
	d.ClearedCollect = make([]int, len(stats.Buckets.ClearBucketStr()))
	d.CascadeCollect = make([]int, len(stats.CascadeBucketStr()))
	return d
}

func newPlayerRecord(moveBudget int, goal int) *PlayerRecord {
	p := new(PlayerRecord)

	p.moveBudget = moveBudget
	p.goal = goal
	p.MovesUsed = 0
	p.Cleared = 0
	p.Reached = false
	p.Exhausted = false

	return p
}
