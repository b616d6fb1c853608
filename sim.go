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
	"io"
	"math"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/recorder"
	"github.com/zintix-labs/matchlab/sdk/core"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/sdk/puzzle"
	"github.com/zintix-labs/matchlab/spec"
	"github.com/zintix-labs/matchlab/stats"
)

const capPrepare int = 100

// 預設玩家歷程參數：SimPlayers 的呼叫端會覆寫
const (
	defaultMoveBudget = 30
	defaultClearGoal  = 100
)

// Simulator 用於模擬盤面行為，可建立多個 Session 並平行紀錄統計。
//
// 每一局模擬是一次「隨機相鄰換位」：座標與方向皆由該 Session 的
// RNG 決定，因此同一個 seed 會重現一模一樣的換位序列與統計結果。
type Simulator struct {
	BoardName string                   // 盤面名稱
	GameId    spec.GID                 // 盤面編號
	moves     int                      // 玩家歷程的步數預算(以局數設定)
	goal      int                      // 玩家歷程的消除目標
	bs        *spec.BoardSetting       // 方便重用建立紀錄員
	logic     *puzzle.LogicRegistry    // 規則註冊表
	cf        core.PRNGFactory         // 亂數生成器
	initSeed  int64                    // 初始下的種子
	seedmaker *seedMaker               // 種子生成器
	mBuf      []*Session               // 併發執行 Session 實例
	rBuf      []*recorder.PlayRecorder // 併發紀錄員
	sBuf      []*stats.StatReport      // 併發統計結果報表(僅Players需要)
}

func newSimulator(bs *spec.BoardSetting, reg *puzzle.LogicRegistry, cf core.PRNGFactory) (*Simulator, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(bs, reg, cf, seed.Int64())
}

func newSimulatorWithSeed(bs *spec.BoardSetting, reg *puzzle.LogicRegistry, cf core.PRNGFactory, seed int64) (*Simulator, error) {
	s := &Simulator{
		BoardName: bs.GameName,
		GameId:    bs.GameID,
		moves:     defaultMoveBudget,
		goal:      defaultClearGoal,
		bs:        bs,
		logic:     reg,
		cf:        cf,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		mBuf:      make([]*Session, 1, capPrepare),
		rBuf:      make([]*recorder.PlayRecorder, 0, capPrepare),
		sBuf:      make([]*stats.StatReport, 0, capPrepare),
	}
	m, err := newSessionWithSeed(bs, reg, cf, s.initSeed, true)
	if err != nil {
		return nil, err
	}
	s.mBuf[0] = m
	return s, nil
}

// Sim 單線模擬器：以一個 Session 連續跑指定 round 並回傳統計結果與用時
func (s *Simulator) Sim(round int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if round < 1 {
		return nil, 0, errs.NewWarn("round must > 0")
	}
	if len(s.rBuf) == 0 {
		r, err := recorder.NewPlayRecorder(s.BoardName, s.GameId, s.moves, s.goal)
		if err != nil {
			return nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}
	r := s.rBuf[0]
	m := s.mBuf[0]

	bar := pb.StartNew(round)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < round; i++ {
		from, to := randomSwap(m)
		pr := m.PlayInternal(from, to)
		r.Record(pr)
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()
	result := r.Done()
	result.Done()

	return result, used, nil
}

// SimMP 平行執行多個 Session，總計 rounds*mp 次 play，合併統計結果後 回傳統計結果與用時
func (s *Simulator) SimMP(rounds int, mp int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if rounds < 1 {
		return nil, 0, errs.NewWarn("round must > 0")
	}
	for len(s.mBuf) < mp {
		m, err := newSessionWithSeed(s.bs, s.logic, s.cf, s.seedmaker.next(), true)
		if err != nil {
			return nil, 0, err
		}
		s.mBuf = append(s.mBuf, m)
	}

	for len(s.rBuf) < mp {
		r, err := recorder.NewPlayRecorder(s.BoardName, s.GameId, s.moves, s.goal)
		if err != nil {
			return nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := pb.StartNew(rounds * mp)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < mp; i++ {
		go func(i int) {
			defer wg.Done()
			g := s.mBuf[i]
			st := s.rBuf[i]
			for r := 0; r < rounds; r++ {
				from, to := randomSwap(g)
				pr := g.PlayInternal(from, to)
				st.Record(pr)
				bar.Increment()
			}
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	st, _ := recorder.MergePlayRecorder(s.rBuf)
	result := st.Done()
	result.Done()

	return result, used, nil
}

// SimPlayers 模擬多個玩家各自帶入步數預算與消除目標的遊戲歷程，並產出盤面報表與玩家報表。
func (s *Simulator) SimPlayers(mp int, players int, moves int, goal int, showpb bool) (*stats.StatReport, *stats.EstimatorPlayers, time.Duration, error) {
	defer s.reset()
	if players < 1 || moves < 1 || goal < 1 || mp < 1 {
		return nil, nil, 0, errs.NewWarn("invalid param")
	}
	s.moves = moves // 賦值
	s.goal = goal

	// 	準備並行 Session
	for len(s.mBuf) < mp {
		m, err := newSessionWithSeed(s.bs, s.logic, s.cf, s.seedmaker.next(), true)
		if err != nil {
			return nil, nil, 0, err
		}
		s.mBuf = append(s.mBuf, m)
	}

	// 準備玩家
	s.sBuf = make([]*stats.StatReport, players)
	for len(s.rBuf) < players {
		r, err := recorder.NewPlayRecorder(s.BoardName, s.GameId, s.moves, s.goal)
		if err != nil {
			return nil, nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}
	// 作一個2048大小的緩衝channel 使player依序處理
	jobs := make(chan *recorder.PlayRecorder, 2048)

	wg := new(sync.WaitGroup)
	wg.Add(mp) // 併發 Session

	bar := pb.StartNew(players)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	// 併發執行
	for w := 0; w < mp; w++ {
		go sim(wg, s.mBuf[w], jobs, moves, bar)
	}
	// 此時併發已經完成，但由於所有workers都無法從jobs當中取出j(還沒塞進去) 所以不會結束

	// 塞進玩家，開始模擬
	for _, j := range s.rBuf {
		jobs <- j
	}
	close(jobs) // 玩家送完處理完畢關閉通道 通知所有 Session 不會再有新資料
	wg.Wait()   // 等待 Session 都執行完任務
	used := time.Since(bar.StartTime())
	bar.Finish()

	// 盤面基準報表
	record, err := recorder.MergePlayRecorder(s.rBuf)
	if err != nil {
		return nil, nil, 0, err
	}
	st := record.Done()
	st.Done()

	// 玩家分析報表
	for i, r := range s.rBuf {
		s.sBuf[i] = r.Done()
		s.sBuf[i].Done()
	}
	est := stats.EstimatorPlayerExp(s.sBuf)
	return st, est, used, nil
}

func sim(wg *sync.WaitGroup, m *Session, jobs chan *recorder.PlayRecorder, moves int, bar *pb.ProgressBar) {
	defer wg.Done()
	for j := range jobs { // j := <- jobs
		for range moves {
			from, to := randomSwap(m)
			pr := m.PlayInternal(from, to)
			if j.RecordWithPlayer(pr) {
				break
			}
		}
		done := j.Done()
		done.Done()
		bar.Increment()
	}
}

// randomSwap 以 Session 自己的 RNG 抽一組相鄰換位座標。
//
// 方向抽到出界就往反方向走；盤面任一維 >= 2 時必定落在盤內。
func randomSwap(s *Session) (grid.Pos, grid.Pos) {
	g := s.Game()
	c := g.Core
	cols, rows := g.Board.Cols(), g.Board.Rows()

	from := grid.P(c.IntN(cols), c.IntN(rows))
	var to grid.Pos
	if c.IntN(2) == 0 {
		// 水平
		dx := 1
		if c.IntN(2) == 0 {
			dx = -1
		}
		if from.X+dx < 0 || from.X+dx >= cols {
			dx = -dx
		}
		to = grid.P(from.X+dx, from.Y)
	} else {
		// 垂直
		dy := 1
		if c.IntN(2) == 0 {
			dy = -1
		}
		if from.Y+dy < 0 || from.Y+dy >= rows {
			dy = -dy
		}
		to = grid.P(from.X, from.Y+dy)
	}
	return from, to
}

func (s *Simulator) reset() {
	s.rBuf = s.rBuf[:0]
	s.sBuf = s.sBuf[:0]
	s.moves = defaultMoveBudget
	s.goal = defaultClearGoal
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// state 走全週期（不重複），再用可逆 mix63 打散
//
// 注意：此方法可能在併發環境下被多 goroutines 同時呼叫（例如 SimMP / SimPlayers）。
// 因此 state 的推進必須是原子的：
//   - 使用 CAS（Compare-And-Swap）迴圈確保每次呼叫都會取得唯一的下一個 state。
//   - 回傳值使用推進後的 state 經 mix63 打散後的結果。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()                                            // always masked
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63 // 乘奇數 ⇒ mod 2^63 可逆
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
