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

package dto

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/matchlab/corefmt"
	"github.com/zintix-labs/matchlab/sdk/buf"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

func TestDecodePlayRequestGet(t *testing.T) {
	r := httptest.NewRequest("GET", "/play?uid=u1&board=demo&gid=1001&from_x=1&from_y=2&to_x=1&to_y=1&session=3", nil)
	req, err := DecodePlayRequest(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.UID != "u1" || req.BoardName != "demo" || req.GameId != 1001 {
		t.Fatalf("unexpected identity fields: %+v", req)
	}
	if req.From != grid.P(1, 2) || req.To != grid.P(1, 1) || req.Session != 3 {
		t.Fatalf("unexpected move fields: %+v", req)
	}
}

func TestDecodePlayRequestPost(t *testing.T) {
	body := `{"uid":"u2","board":"demo","gid":1001,"from":{"x":0,"y":0},"to":{"x":0,"y":1},"session":1}`
	r := httptest.NewRequest("POST", "/play", strings.NewReader(body))
	req, err := DecodePlayRequest(r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.From != grid.P(0, 0) || req.To != grid.P(0, 1) {
		t.Fatalf("unexpected positions: %+v", req)
	}
}

func TestDecodePlayRequestRejectsBadInput(t *testing.T) {
	r := httptest.NewRequest("GET", "/play?gid=abc", nil)
	if _, err := DecodePlayRequest(r); err == nil {
		t.Fatalf("expected error for bad gid")
	}

	r = httptest.NewRequest("GET", "/play?from_x=zz", nil)
	if _, err := DecodePlayRequest(r); err == nil {
		t.Fatalf("expected error for bad from_x")
	}

	r = httptest.NewRequest("POST", "/play", strings.NewReader(`{"unknown_field":1}`))
	if _, err := DecodePlayRequest(r); err == nil {
		t.Fatalf("expected error for unknown field")
	}

	r = httptest.NewRequest("DELETE", "/play", nil)
	if _, err := DecodePlayRequest(r); err == nil {
		t.Fatalf("expected error for method")
	}
}

func TestParseStartState(t *testing.T) {
	coreSnap := []byte{1, 2, 3}
	boardSnap := []byte{9, 8}
	req := &PlayRequest{
		UID:       "u1",
		BoardName: "demo",
		GameId:    1001,
		From:      grid.P(0, 0),
		To:        grid.P(1, 0),
		StartState: &StartState{
			StartCoreSnapB64U: corefmt.EncodeBase64URL(coreSnap),
			BoardSnapB64U:     corefmt.EncodeBase64URL(boardSnap),
		},
	}

	got, err := req.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.StartState == nil {
		t.Fatalf("expected start state")
	}
	if string(got.StartState.StartCoreSnap) != string(coreSnap) {
		t.Fatalf("core snap mismatch: %v", got.StartState.StartCoreSnap)
	}
	if string(got.StartState.BoardSnap) != string(boardSnap) {
		t.Fatalf("board snap mismatch: %v", got.StartState.BoardSnap)
	}
}

func TestParseWithoutStartState(t *testing.T) {
	req := &PlayRequest{BoardName: "demo", GameId: 1}
	got, err := req.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.StartState != nil {
		t.Fatalf("expected nil start state for new play")
	}
}

func TestParseRejectsBadB64(t *testing.T) {
	req := &PlayRequest{StartState: &StartState{StartCoreSnapB64U: "!!!"}}
	if _, err := req.Parse(); err == nil {
		t.Fatalf("expected error for invalid base64url")
	}
}

func newResultFixture() *buf.PlayResult {
	bs := &spec.BoardSetting{
		GameName: "demo",
		GameID:   1001,
		RuleKey:  "classic",
		GridSetting: spec.GridSetting{
			Columns: 3, Rows: 3, CellCount: 9,
		},
	}
	pr := buf.NewPlayResult(bs)
	pr.From = grid.P(0, 0)
	pr.To = grid.P(1, 0)
	pr.Swapped = true
	pr.AddStep("row3", 1, 3,
		[]grid.Pos{grid.P(0, 0), grid.P(1, 0), grid.P(2, 0)},
		[]buf.Move{{From: grid.P(0, 1), To: grid.P(0, 0)}},
		[]buf.Fill{{Pos: grid.P(0, 2), Piece: 2}},
	)
	pr.State.StartCoreSnap = []byte{1}
	pr.State.AfterCoreSnap = []byte{2}
	pr.State.BoardSnap = []byte{3, 4}
	pr.End()
	return pr
}

func TestNewPlayResultDTO(t *testing.T) {
	pr := newResultFixture()
	dto, err := NewPlayResultDTO(pr)
	if err != nil {
		t.Fatalf("dto: %v", err)
	}

	if dto.BoardName != "demo" || dto.GameID != 1001 || !dto.Swapped || !dto.IsEnd {
		t.Fatalf("unexpected header fields: %+v", dto)
	}
	if dto.TotalCleared != 3 || len(dto.Steps) != 1 {
		t.Fatalf("unexpected step data: %+v", dto)
	}
	step := dto.Steps[0]
	if step.Pattern != "row3" || step.Piece != 1 || len(step.Hits) != 3 {
		t.Fatalf("unexpected step: %+v", step)
	}
	if dto.State.StartCoreSnapB64U == "" || dto.State.AfterCoreSnapB64U == "" || dto.State.BoardSnapB64U == "" {
		t.Fatalf("expected all snapshots encoded: %+v", dto.State)
	}

	snap, err := corefmt.DecodeBase64URL(dto.State.BoardSnapB64U)
	if err != nil || string(snap) != string([]byte{3, 4}) {
		t.Fatalf("board snap round trip failed: %v %v", snap, err)
	}
}

func TestNewPlayResultDTODetachedFromBuffer(t *testing.T) {
	pr := newResultFixture()
	dto, err := NewPlayResultDTO(pr)
	if err != nil {
		t.Fatalf("dto: %v", err)
	}

	// DTO 必須與可重用 buffer 脫鉤
	pr.Reset()
	if len(dto.Steps) != 1 || len(dto.Steps[0].Hits) != 3 {
		t.Fatalf("dto mutated by buffer reset: %+v", dto.Steps)
	}
	if dto.Steps[0].Hits[2] != grid.P(2, 0) {
		t.Fatalf("unexpected hit after reset: %v", dto.Steps[0].Hits)
	}
}

func TestNewPlayResultDTONil(t *testing.T) {
	if _, err := NewPlayResultDTO(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
}

type fakeExtend struct {
	Count int `json:"count"`
}

func TestExtendRenderRegistration(t *testing.T) {
	RegisterExtendRender[*fakeExtend]("testrule")

	got := renderExtendResult("testrule", &fakeExtend{Count: 2})
	fe, ok := got.(*fakeExtend)
	if !ok || fe.Count != 2 {
		t.Fatalf("unexpected rendered extend: %#v", got)
	}

	// 未註冊的 key 原樣放行
	raw := renderExtendResult("other", 42)
	if raw != 42 {
		t.Fatalf("unexpected passthrough value: %v", raw)
	}
}

func TestRegisterExtendRenderPanicsOnValueType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for non-pointer type")
		}
	}()
	RegisterExtendRender[fakeExtend]("badrule")
}
