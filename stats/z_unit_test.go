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

package stats_test

import (
	"math"
	"testing"

	"github.com/zintix-labs/matchlab/spec"
	"github.com/zintix-labs/matchlab/stats"
)

// buildStatReport constructs a StatReport from a list of per-play cleared
// counts. Every play is counted as a successful swap to simplify assertions.
func buildStatReport(cleared []int) *stats.StatReport {
	L := len(stats.Buckets.ClearBucketStr())
	bucket := stats.Buckets.Get()
	cc := make([]int, L)

	var total, totalSq int
	for _, c := range cleared {
		cc[bucket.Index(c)]++
		total += c
		totalSq += c * c
	}

	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			BoardName:     "TestBoard",
			GameId:        spec.GID(0),
			Rounds:        len(cleared),
			Swapped:       len(cleared),
			TotalCleared:  total,
			NoClearRounds: cc[0],
		},
		Clear: &stats.ClearReport{
			ClearedSqSum: totalSq,
		},
		Dist: &stats.DistReport{
			ClearBucket:    stats.Buckets.ClearBucketStr(),
			ClearedCollect: cc,
			ClearedDist:    make([]float64, L),
			CascadeBucket:  stats.CascadeBucketStr(),
			CascadeCollect: make([]int, len(stats.CascadeBucketStr())),
			CascadeDist:    make([]float64, len(stats.CascadeBucketStr())),
		},
		Player: &stats.PlayerReport{},
	}
	report.Done()
	return report
}

func TestClearBucketIndex(t *testing.T) {
	labels := stats.Buckets.ClearBucketStr()
	bucket := stats.Buckets.Get()

	cases := []struct {
		cleared int
		want    int
	}{
		{0, 0},   // [0,0]
		{1, 1},   // (0,3)
		{2, 1},   // (0,3)
		{3, 2},   // [3,5)
		{4, 2},   // [3,5)
		{5, 3},   // [5,10)
		{9, 3},   // [5,10)
		{10, 4},  // [10,20)
		{29, 5},  // [20,30)
		{49, 6},  // [30,50)
		{99, 7},  // [50,100)
		{100, 8}, // [100,200)
		{199, 8}, // [100,200)
		{200, 9}, // [200,+inf)
		{999, 9}, // [200,+inf)
	}
	for _, c := range cases {
		if got := bucket.Index(c.cleared); got != c.want {
			t.Fatalf("Index(%d) got %d (%s) want %d (%s)",
				c.cleared, got, labels[got], c.want, labels[c.want])
		}
	}
	if got := bucket.Index(200); got != len(labels)-1 {
		t.Fatalf("top bucket index %d should map to last label", got)
	}
}

func TestCascadeIndex(t *testing.T) {
	labels := stats.CascadeBucketStr()
	if len(labels) != 9 {
		t.Fatalf("expected 9 cascade labels, got %d", len(labels))
	}
	cases := []struct {
		steps int
		want  int
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{7, 7},
		{8, 8},
		{100, 8},
	}
	for _, c := range cases {
		if got := stats.CascadeIndex(c.steps); got != c.want {
			t.Fatalf("CascadeIndex(%d) got %d want %d", c.steps, got, c.want)
		}
	}
}

func TestStatReportCoreMetrics(t *testing.T) {
	rep := buildStatReport([]int{4, 8})

	wantAvg := 6.0
	if got := rep.AvgCleared(); math.Abs(got-wantAvg) > 1e-12 {
		t.Fatalf("AvgCleared got %.12f want %.12f", got, wantAvg)
	}

	// sample variance of {4, 8}: ((16+64) - 144/2) / (2-1) = 8
	wantStd := math.Sqrt(8.0)
	if got := rep.Std(); math.Abs(got-wantStd) > 1e-12 {
		t.Fatalf("Std got %.12f want %.12f", got, wantStd)
	}

	wantCV := wantStd / wantAvg
	if got := rep.Cv(); math.Abs(got-wantCV) > 1e-12 {
		t.Fatalf("CV got %.12f want %.12f", got, wantCV)
	}

	if rep.Summary.SwapRate != 1.0 {
		t.Fatalf("SwapRate got %.2f want 1.00", rep.Summary.SwapRate)
	}
	if rep.Summary.HitRate != 1.0 {
		t.Fatalf("HitRate got %.2f want 1.00", rep.Summary.HitRate)
	}

	// Distribution lengths and sums
	if len(rep.Dist.ClearedCollect) != len(rep.Dist.ClearBucket) {
		t.Fatalf("clear buckets length mismatch")
	}
	totalRounds := 0
	for _, c := range rep.Dist.ClearedCollect {
		totalRounds += c
	}
	if totalRounds != rep.Summary.Rounds {
		t.Fatalf("distribution total %d != rounds %d", totalRounds, rep.Summary.Rounds)
	}

	rep.Done() // idempotent
	if rep.Summary.AvgCleared != wantAvg {
		t.Fatalf("AvgCleared changed after second Done")
	}
}

func TestStatReportNoClear(t *testing.T) {
	rep := buildStatReport([]int{0, 0, 0, 6})

	if rep.Summary.NoClearRounds != 3 {
		t.Fatalf("NoClearRounds got %d want 3", rep.Summary.NoClearRounds)
	}
	wantHit := 0.25
	if math.Abs(rep.Summary.HitRate-wantHit) > 1e-12 {
		t.Fatalf("HitRate got %.12f want %.12f", rep.Summary.HitRate, wantHit)
	}
}

func TestEstimatorClearAndSession(t *testing.T) {
	// Build 100 reports with per-play average cleared from 0 to 99
	reports := make([]*stats.StatReport, 0, 100)
	for i := 0; i < 100; i++ {
		reports = append(reports, buildStatReport([]int{i}))
	}

	est := stats.EstimatorPlayerExp(reports)
	if math.Abs(est.ClearStat.ExpMedian.Hat-50.0) > 2.0 {
		t.Fatalf("median avg cleared expected ~50, got %.3f", est.ClearStat.ExpMedian.Hat)
	}
	if math.Abs(est.ClearStat.ExpPerc.ExpP90.Hat-90.0) > 3.0 {
		t.Fatalf("P90 avg cleared expected ~90, got %.3f", est.ClearStat.ExpPerc.ExpP90.Hat)
	}
	// avg <= 3 holds for {0,1,2,3} out of 100
	if math.Abs(est.ClearStat.ClearPerc.Clear3.Hat-0.04) > 1e-12 {
		t.Fatalf("Clear3 proportion got %.3f want 0.040", est.ClearStat.ClearPerc.Clear3.Hat)
	}

	// Session outcome: 3 out of moves, 2 reached goal, 5 alive
	sessionSamples := make([]*stats.StatReport, 10)
	for i := 0; i < 10; i++ {
		r := buildStatReport([]int{0})
		switch {
		case i < 3:
			r.Player.OutOfMoves = true
			r.Player.Alive = false
		case i < 5:
			r.Player.GoalReached = true
			r.Player.Alive = false
		default:
			r.Player.Alive = true
		}
		sessionSamples[i] = r
	}
	est2 := stats.EstimatorPlayerExp(sessionSamples)
	if est2.SessionStat.OutOfMoves.Hat != 0.3 {
		t.Fatalf("OutOfMoves rate got %.2f want 0.30", est2.SessionStat.OutOfMoves.Hat)
	}
	if est2.SessionStat.GoalReached.Hat != 0.2 {
		t.Fatalf("GoalReached rate got %.2f want 0.20", est2.SessionStat.GoalReached.Hat)
	}
	if est2.SessionStat.Alive.Hat != 0.5 {
		t.Fatalf("Alive rate got %.2f want 0.50", est2.SessionStat.Alive.Hat)
	}
}
