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

package buf

import (
	"testing"

	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

func testBoardSetting() *spec.BoardSetting {
	return &spec.BoardSetting{
		GameName: "demo_board",
		GameID:   1001,
		RuleKey:  "classic",
		GridSetting: spec.GridSetting{
			Columns:   4,
			Rows:      4,
			CellCount: 16,
		},
	}
}

func TestMoveLogReuse(t *testing.T) {
	var l MoveLog
	l.Record(grid.P(0, 2), grid.P(0, 0))
	l.Record(grid.P(1, 2), grid.P(1, 1))
	if l.Len() != 2 {
		t.Fatalf("expected 2 moves, got %d", l.Len())
	}
	got := l.Moves()
	if got[0] != (Move{From: grid.P(0, 2), To: grid.P(0, 0)}) {
		t.Fatalf("unexpected first move %v", got[0])
	}

	l.Reset()
	if l.Len() != 0 {
		t.Fatalf("expected log empty after reset, got %d", l.Len())
	}
	l.Record(grid.P(3, 3), grid.P(3, 0))
	if l.Moves()[0].To != grid.P(3, 0) {
		t.Fatalf("unexpected move after reuse: %v", l.Moves())
	}
}

func TestPlayResultSteps(t *testing.T) {
	r := NewPlayResult(testBoardSetting())
	r.From = grid.P(0, 0)
	r.To = grid.P(1, 0)
	r.Swapped = true

	r.AddStep("row3", 1, 3,
		[]grid.Pos{grid.P(0, 0), grid.P(1, 0), grid.P(2, 0)},
		[]Move{{From: grid.P(0, 2), To: grid.P(0, 0)}},
		[]Fill{{Pos: grid.P(0, 3), Piece: 2}},
	)
	r.AddStep("row3", 2, 3,
		[]grid.Pos{grid.P(1, 1), grid.P(2, 1), grid.P(3, 1)},
		nil,
		nil,
	)
	r.End()

	if r.Cascades() != 2 {
		t.Fatalf("expected 2 steps, got %d", r.Cascades())
	}
	if r.TotalCleared != 6 {
		t.Fatalf("expected 6 cleared, got %d", r.TotalCleared)
	}
	if hits := r.StepHits(0); len(hits) != 3 || hits[2] != grid.P(2, 0) {
		t.Fatalf("unexpected step 0 hits: %v", hits)
	}
	if moves := r.StepMoves(0); len(moves) != 1 || moves[0].To != grid.P(0, 0) {
		t.Fatalf("unexpected step 0 moves: %v", moves)
	}
	if fills := r.StepFills(1); len(fills) != 0 {
		t.Fatalf("expected no fills in step 1, got %v", fills)
	}

	r.Reset()
	if r.Cascades() != 0 || r.TotalCleared != 0 || r.IsEnd {
		t.Fatalf("expected clean state after reset")
	}
}

func TestPlayResultAddAfterEndPanics(t *testing.T) {
	r := NewPlayResult(testBoardSetting())
	r.End()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when adding step after End")
		}
	}()
	r.AddStep("row3", 1, 3, []grid.Pos{grid.P(0, 0)}, nil, nil)
}

func TestStartStateHasPayload(t *testing.T) {
	var ss *StartState
	if ss.HasPayload() {
		t.Fatalf("nil StartState must have no payload")
	}
	if (&StartState{}).HasPayload() {
		t.Fatalf("empty StartState must have no payload")
	}
	if !(&StartState{StartCoreSnap: []byte{1}}).HasPayload() {
		t.Fatalf("core snap alone is a payload")
	}
	if !(&StartState{BoardSnap: []byte{1}}).HasPayload() {
		t.Fatalf("board snap alone is a payload")
	}
}
