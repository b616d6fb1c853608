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

package stats

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================
// ** 結構宣告 **
// ============================================================

// 用戶體驗評估
type EstimatorPlayers struct {
	ClearStat   ClearStat
	EventStat   EventStat
	SessionStat SessionStat
}

// 單局平均消除數敘事
type ClearStat struct {
	ExpMedian PointStat // 描述體驗的中位數
	ExpPerc   ExpPerc   // 描述玩家的分布(對應平均消除數)
	ClearPerc ClearPerc // 描述平均消除數的分布(對應多少比例的玩家)
}

// 用玩家體驗分位數視角看: 最差10％玩家的平均消除數 最差33%玩家的平均消除數 ...
type ExpPerc struct {
	ExpP10 PointStat
	ExpP33 PointStat
	ExpP67 PointStat
	ExpP90 PointStat
}

// 用平均消除數分位數視角看玩家: 有多少玩家單局平均只消到3顆 有多少玩家消到5顆 ...
type ClearPerc struct {
	Clear3  PointStat
	Clear5  PointStat
	Clear8  PointStat
	Clear12 PointStat
}

// PointStat 點估計 回傳 估計值 以及信賴區間
type PointStat struct {
	Hat float64
	CI  CI
}

// 事件敘事
type EventStat struct {
	BigCascade EventCount
	Bucket     BucketEvent
}

// 事件點估計
type EventCount struct {
	Zero PointStat
	One  PointStat
	Two  PointStat
	More PointStat
}

// 對應分桶的統計
type BucketEvent struct {
	BucketLable []string     // 分桶標籤
	BucketCount []EventCount // 分桶事件點估計
}

// 對應結果敘事
type SessionStat struct {
	GoalReached PointStat // 達標離場
	OutOfMoves  PointStat // 步數用盡
	Alive       PointStat // 活到最後
}

// ============================================================
// ** 對外 : 用戶體驗評估 **
// ============================================================

// EstimatorPlayerExp 用戶體驗評估
//
// 1. Clear 敘事 : 描述用戶大致的單局平均消除數分布
//
// 2. Event 敘事 : 描述用戶遇到某些事件(兩步以上大連鎖、單局消除落桶所對應的機率)
//
// 3. Session 敘事 : 描述用戶最終達標離場、步數用盡離場、打累了離場的機率
func EstimatorPlayerExp(sts []*StatReport) *EstimatorPlayers {
	// 0. 防禦：空輸入
	n := len(sts)
	out := &EstimatorPlayers{}
	if n == 0 {
		return out
	}

	// ------------------------------------------------------------
	// 1) Clear 敘事：收集每位玩家單局平均消除數並做分位/CI
	// ------------------------------------------------------------
	avg := make([]float64, n)
	for i, s := range sts {
		avg[i] = s.AvgCleared()
	}

	// 中位數 (點估計 + 95% CI)
	medHat := quantilePoint(avg, 0.5)
	medLo, medHi := quantileCI(avg, 0.5, 0.95)

	// P10, P33, P67, P90 (點估計 + 95% CI)
	p10Hat := quantilePoint(avg, 0.10)
	p10Lo, p10Hi := quantileCI(avg, 0.10, 0.95)

	p33Hat := quantilePoint(avg, 1.0/3.0)
	p33Lo, p33Hi := quantileCI(avg, 1.0/3.0, 0.95)

	p67Hat := quantilePoint(avg, 2.0/3.0)
	p67Lo, p67Hi := quantileCI(avg, 2.0/3.0, 0.95)

	p90Hat := quantilePoint(avg, 0.90)
	p90Lo, p90Hi := quantileCI(avg, 0.90, 0.95)

	// 消除數對標：≤ 3/5/8/12 顆的玩家比例（CP 95% CI）
	clear3Hat, clear3CI := percentileCIForValue(avg, 3.0, 0.95)
	clear5Hat, clear5CI := percentileCIForValue(avg, 5.0, 0.95)
	clear8Hat, clear8CI := percentileCIForValue(avg, 8.0, 0.95)
	clear12Hat, clear12CI := percentileCIForValue(avg, 12.0, 0.95)

	out.ClearStat = ClearStat{
		ExpMedian: PointStat{Hat: medHat, CI: CI{Lo: medLo, Hi: medHi}},
		ExpPerc: ExpPerc{
			ExpP10: PointStat{Hat: p10Hat, CI: CI{Lo: p10Lo, Hi: p10Hi}},
			ExpP33: PointStat{Hat: p33Hat, CI: CI{Lo: p33Lo, Hi: p33Hi}},
			ExpP67: PointStat{Hat: p67Hat, CI: CI{Lo: p67Lo, Hi: p67Hi}},
			ExpP90: PointStat{Hat: p90Hat, CI: CI{Lo: p90Lo, Hi: p90Hi}},
		},
		ClearPerc: ClearPerc{
			Clear3:  PointStat{Hat: clear3Hat, CI: clear3CI},
			Clear5:  PointStat{Hat: clear5Hat, CI: clear5CI},
			Clear8:  PointStat{Hat: clear8Hat, CI: clear8CI},
			Clear12: PointStat{Hat: clear12Hat, CI: clear12CI},
		},
	}

	// ------------------------------------------------------------
	// 2) Event 敘事：大連鎖次數分布 + 各桶次數分布（0/1/2/3+）
	// ------------------------------------------------------------
	// 2.1 大連鎖（0/1/2/3+）
	var c0, c1, c2, c3p int
	for _, s := range sts {
		t := s.Summary.BigCascades
		switch {
		case t == 0:
			c0++
		case t == 1:
			c1++
		case t == 2:
			c2++
		default:
			c3p++
		}
	}
	_, ci0 := proportionCICP(c0, n, 0.95)
	_, ci1 := proportionCICP(c1, n, 0.95)
	_, ci2 := proportionCICP(c2, n, 0.95)
	_, ci3 := proportionCICP(c3p, n, 0.95)

	out.EventStat.BigCascade = EventCount{
		Zero: PointStat{Hat: float64(c0) / float64(n), CI: ci0},
		One:  PointStat{Hat: float64(c1) / float64(n), CI: ci1},
		Two:  PointStat{Hat: float64(c2) / float64(n), CI: ci2},
		More: PointStat{Hat: float64(c3p) / float64(n), CI: ci3},
	}

	// 2.2 分桶
	labels := Buckets.ClearBucketStr() // 長度 = len(clearBucket)+1
	L := len(labels)
	out.EventStat.Bucket = BucketEvent{BucketLable: labels, BucketCount: make([]EventCount, L)}

	// 對每個桶，統計玩家中 0/1/2/3+ 次數比例
	for bi := 0; bi < L; bi++ {
		var b0, b1, b2, b3p int
		for _, s := range sts {
			cnt := 0
			if bi < len(s.Dist.ClearedCollect) {
				cnt = s.Dist.ClearedCollect[bi]
			}
			switch {
			case cnt == 0:
				b0++
			case cnt == 1:
				b1++
			case cnt == 2:
				b2++
			default:
				b3p++
			}
		}
		_, ciB0 := proportionCICP(b0, n, 0.95)
		_, ciB1 := proportionCICP(b1, n, 0.95)
		_, ciB2 := proportionCICP(b2, n, 0.95)
		_, ciB3 := proportionCICP(b3p, n, 0.95)

		out.EventStat.Bucket.BucketCount[bi] = EventCount{
			Zero: PointStat{Hat: float64(b0) / float64(n), CI: ciB0},
			One:  PointStat{Hat: float64(b1) / float64(n), CI: ciB1},
			Two:  PointStat{Hat: float64(b2) / float64(n), CI: ciB2},
			More: PointStat{Hat: float64(b3p) / float64(n), CI: ciB3},
		}
	}

	// ------------------------------------------------------------
	// 3) Session 敘事：GoalReached / OutOfMoves / Alive 比例 + CP 95% CI
	// ------------------------------------------------------------
	var goalK, outK, aliveK int
	for _, s := range sts {
		if s.Player.GoalReached {
			goalK++
		}
		if s.Player.OutOfMoves {
			outK++
		}
		if s.Player.Alive {
			aliveK++
		}
	}

	goalHat, goalCI := proportionCICP(goalK, n, 0.95)
	outHat, outCI := proportionCICP(outK, n, 0.95)
	aliveHat, aliveCI := proportionCICP(aliveK, n, 0.95)

	out.SessionStat = SessionStat{
		GoalReached: PointStat{Hat: goalHat, CI: goalCI},
		OutOfMoves:  PointStat{Hat: outHat, CI: outCI},
		Alive:       PointStat{Hat: aliveHat, CI: aliveCI},
	}

	return out
}

// ============================================================
// ** 內部統計函數 **
// ============================================================

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// 問題：給定樣本 data 與門檻 x0，估計 p = P(X ≤ x0) 的點估計與 CI 區間
// 回傳 (pHat, CI)
func percentileCIForValue(data []float64, x0 float64, confidence float64) (pHat float64, ci CI) {
	n := len(data)
	if n == 0 {
		return 0, CI{Lo: 0, Hi: 0}
	}
	// k = 數到 <= x0 的個數
	k := 0
	for _, v := range data {
		if v <= x0 {
			k++
		}
	}
	return proportionCICP(k, n, confidence)
}

// 想估「第 q 分位」的上下界。做法：把 order statistic 的秩視為二項→Beta 反推 p 範圍，再把 p 轉回樣本索引。
// 回傳 (loValue, hiValue)
func quantileCI(data []float64, q, confidence float64) (float64, float64) {
	n := len(data)
	if n == 0 {
		return 0, 0
	}
	cp := make([]float64, n)
	copy(cp, data)
	sort.Float64s(cp)

	alpha := 1 - confidence
	k := int(q * float64(n))
	if k < 1 {
		k = 1
	} else if k > n-1 {
		k = n - 1
	}

	// 以 CP 思想反推 p 範圍
	bLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
	bHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
	pLo := bLo.Quantile(alpha / 2)
	pHi := bHi.Quantile(1 - alpha/2)

	li := int(pLo * float64(n))
	ui := int(pHi * float64(n))
	if ui > 0 {
		ui -= 1
	}
	if li < 0 {
		li = 0
	}
	if li > n-1 {
		li = n - 1
	}
	if ui < 0 {
		ui = 0
	}
	if ui > n-1 {
		ui = n - 1
	}
	return cp[li], cp[ui]
}

// quantilePoint returns the empirical quantile point estimate at q.
func quantilePoint(data []float64, q float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	cp := make([]float64, n)
	copy(cp, data)
	sort.Float64s(cp)
	// 最近秩法
	idx := int(q * float64(n))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return cp[idx]
}

// ============================================================
// ** 輸出函數 **
// ============================================================

func (est *EstimatorPlayers) Out() {
	// 1) Clears (Player Experience)
	fmt.Println("=== Clears (Player Experience) ===")
	clearKeys := []string{
		"Median Avg Cleared",
		"P10 Avg Cleared",
		"P33 Avg Cleared",
		"P67 Avg Cleared",
		"P90 Avg Cleared",
		"≤3 cleared (players)",
		"≤5 cleared (players)",
		"≤8 cleared (players)",
		"≤12 cleared (players)",
	}
	clearMsg := map[string]string{
		"Median Avg Cleared":    fmtHatCI(est.ClearStat.ExpMedian.Hat, est.ClearStat.ExpMedian.CI),
		"P10 Avg Cleared":       fmtHatCI(est.ClearStat.ExpPerc.ExpP10.Hat, est.ClearStat.ExpPerc.ExpP10.CI),
		"P33 Avg Cleared":       fmtHatCI(est.ClearStat.ExpPerc.ExpP33.Hat, est.ClearStat.ExpPerc.ExpP33.CI),
		"P67 Avg Cleared":       fmtHatCI(est.ClearStat.ExpPerc.ExpP67.Hat, est.ClearStat.ExpPerc.ExpP67.CI),
		"P90 Avg Cleared":       fmtHatCI(est.ClearStat.ExpPerc.ExpP90.Hat, est.ClearStat.ExpPerc.ExpP90.CI),
		"≤3 cleared (players)":  fmtHatCIpct01(est.ClearStat.ClearPerc.Clear3.Hat, est.ClearStat.ClearPerc.Clear3.CI),
		"≤5 cleared (players)":  fmtHatCIpct01(est.ClearStat.ClearPerc.Clear5.Hat, est.ClearStat.ClearPerc.Clear5.CI),
		"≤8 cleared (players)":  fmtHatCIpct01(est.ClearStat.ClearPerc.Clear8.Hat, est.ClearStat.ClearPerc.Clear8.CI),
		"≤12 cleared (players)": fmtHatCIpct01(est.ClearStat.ClearPerc.Clear12.Hat, est.ClearStat.ClearPerc.Clear12.CI),
	}
	printTable("Clears (Player Experience)", clearKeys, clearMsg)

	// 2) Events: big cascade counts per player
	fmt.Println("\n=== Events: Big cascade counts per player ===")
	cascadeKeys := []string{"0 times", "1 time", "2 times", "3+ times"}
	cascadeMsg := map[string]string{
		"0 times":  fmtHatCIpct01(est.EventStat.BigCascade.Zero.Hat, est.EventStat.BigCascade.Zero.CI),
		"1 time":   fmtHatCIpct01(est.EventStat.BigCascade.One.Hat, est.EventStat.BigCascade.One.CI),
		"2 times":  fmtHatCIpct01(est.EventStat.BigCascade.Two.Hat, est.EventStat.BigCascade.Two.CI),
		"3+ times": fmtHatCIpct01(est.EventStat.BigCascade.More.Hat, est.EventStat.BigCascade.More.CI),
	}
	printTable("Events: Big cascade counts per player", cascadeKeys, cascadeMsg)

	// 3) Events: Buckets (per player hits in bucket)
	fmt.Println("\n=== Events: Buckets (per player hits in bucket) ===")
	for i, label := range est.EventStat.Bucket.BucketLable {
		ec := est.EventStat.Bucket.BucketCount[i]
		fmt.Printf("%-20s : %s\n", label, fmtEventCount(ec))
	}

	// 4) Session Outcome
	fmt.Println("\n=== Session Outcome ===")
	sessionKeys := []string{"GoalReached", "OutOfMoves", "Alive"}
	sessionMsg := map[string]string{
		"GoalReached": fmtHatCIpct01(est.SessionStat.GoalReached.Hat, est.SessionStat.GoalReached.CI),
		"OutOfMoves":  fmtHatCIpct01(est.SessionStat.OutOfMoves.Hat, est.SessionStat.OutOfMoves.CI),
		"Alive":       fmtHatCIpct01(est.SessionStat.Alive.Hat, est.SessionStat.Alive.CI),
	}
	printTable("Session Outcome", sessionKeys, sessionMsg)
}

func printTable(title string, keys []string, msg map[string]string) {
	fmt.Println(title)
	maxKeyLen := 0
	for _, k := range keys {
		if len(k) > maxKeyLen {
			maxKeyLen = len(k)
		}
	}
	for _, k := range keys {
		fmt.Printf("  %-*s : %s\n", maxKeyLen, k, msg[k])
	}
}

func fmtPct01(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func fmtHatCIpct01(hat float64, ci CI) string {
	return fmt.Sprintf("%s [%s, %s]", fmtPct01(hat), fmtPct01(ci.Lo), fmtPct01(ci.Hi))
}

func fmtHatCI(hat float64, ci CI) string {
	return fmt.Sprintf("%.3f [%.3f, %.3f]", hat, ci.Lo, ci.Hi)
}

func fmtEventCount(ec EventCount) string {
	return fmt.Sprintf("0x: %s | 1x: %s | 2x: %s | 3+x: %s",
		fmtHatCIpct01(ec.Zero.Hat, ec.Zero.CI),
		fmtHatCIpct01(ec.One.Hat, ec.One.CI),
		fmtHatCIpct01(ec.Two.Hat, ec.Two.CI),
		fmtHatCIpct01(ec.More.Hat, ec.More.CI),
	)
}
