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
	"github.com/zintix-labs/matchlab/corefmt"
	"github.com/zintix-labs/matchlab/dto"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/stats"
)

// DevSimulator
//
// 只提供給Dev模式使用的模擬器，單線(不併發)，重點在可審計、可重現
type DevSimulator struct {
	sim      *Simulator // 只開放Sim功能
	m        *Session   // 同步seed
	before   []byte
	after    []byte
	before64 string
	after64  string
}

type DevPlayReport struct {
	Before        string           `json:"start_b64u"`
	After         string           `json:"after_b64u"`
	Round         int              `json:"round"`
	Swapped       int              `json:"swapped"`
	TotalCleared  int              `json:"total_cleared"`
	TotalCascades int              `json:"total_cascades"`
	AvgCleared    float64          `json:"avg_cleared"`
	Results       []dto.PlayResult `json:"results"`
}

// playOne 以 Session 自己的 RNG 抽一組相鄰換位並走完整的 Play 流程，
// 讓每一回合都帶有可回放的 PlayState 快照。
func (d *DevSimulator) playOne() (dto.PlayResult, error) {
	from, to := randomSwap(d.m)
	req := &dto.PlayRequest{
		BoardName: d.m.boardName,
		GameId:    d.m.gameId,
		From:      from,
		To:        to,
	}
	return d.m.Play(req)
}

func (d *DevSimulator) Plays(round int) (DevPlayReport, error) {
	// 限制檢查
	if round < 1 || round > 5000 {
		return DevPlayReport{}, errs.NewWarn("round must be between 1 and 5,000")
	}

	// play
	ds := make([]dto.PlayResult, 0, round)
	for range round {
		result, err := d.playOne()
		if err != nil {
			return DevPlayReport{}, errs.Wrap(err, "play error")
		}
		ds = append(ds, result)
	}
	// 統計
	swapped, cleared, cascades := 0, 0, 0
	for _, r := range ds {
		if r.Swapped {
			swapped++
		}
		cleared += r.TotalCleared
		cascades += len(r.Steps)
	}

	de := DevPlayReport{
		Before:        ds[0].State.StartCoreSnapB64U,
		After:         ds[len(ds)-1].State.AfterCoreSnapB64U,
		Round:         len(ds),
		Swapped:       swapped,
		TotalCleared:  cleared,
		TotalCascades: cascades,
		AvgCleared:    float64(cleared) / float64(len(ds)),
		Results:       ds,
	}
	return de, nil
}

func (d *DevSimulator) RestorePlays(be64 string, round int) (DevPlayReport, error) {
	// 限制檢查
	if round < 1 || round > 5000 {
		return DevPlayReport{}, errs.NewWarn("round must be between 1 and 5,000")
	}
	// 解析seed
	be, err := corefmt.DecodeBase64URL(be64)
	if err != nil {
		return DevPlayReport{}, errs.NewWarn("decode seed failed" + err.Error())
	}
	// restore
	if err := d.m.RestoreCore(be); err != nil {
		return DevPlayReport{}, errs.NewWarn("session restore failed")
	}
	return d.Plays(round)
}

type DevSimReport struct {
	Before string            `json:"before"`
	After  string            `json:"after"`
	Stat   *stats.StatReport `json:"statistic"`
}

func (d *DevSimulator) Sim(round int) (DevSimReport, error) {
	// 先存 before 快照
	m := d.sim.mBuf[0]
	be, err := m.SnapshotCore()
	if err != nil {
		return DevSimReport{}, err
	}
	be64 := corefmt.EncodeBase64URL(be)
	d.before = be
	d.before64 = be64

	// Sim
	if round < 1 || round > 3_000_000 {
		return DevSimReport{}, errs.NewWarn("round must be between 1 and 3,000,000")
	}
	stat, _, err := d.sim.Sim(round, false)
	if err != nil {
		return DevSimReport{}, errs.Wrap(err, "sim failed")
	}

	// 再存 after 快照
	af, err := m.SnapshotCore()
	if err != nil {
		return DevSimReport{}, err
	}
	af64 := corefmt.EncodeBase64URL(af)
	d.after = af
	d.after64 = af64

	return DevSimReport{
		Before: be64,
		After:  af64,
		Stat:   stat,
	}, nil
}

func (d *DevSimulator) RestoreSim(be64 string, round int) (DevSimReport, error) {
	// 反解析 string -> []byte
	be, err := corefmt.DecodeBase64URL(be64)
	if err != nil {
		return DevSimReport{}, errs.Wrap(err, "decode seed failed")
	}
	d.before = be
	d.before64 = be64

	// restore
	if err := d.sim.mBuf[0].RestoreCore(be); err != nil {
		return DevSimReport{}, errs.Wrap(err, "restore simulator failed")
	}

	return d.Sim(round)
}
