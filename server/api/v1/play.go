package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/zintix-labs/matchlab"
	"github.com/zintix-labs/matchlab/dto"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/server/httperr"
	"github.com/zintix-labs/matchlab/server/svrcfg"
)

func (c *PlayHandler) Play(w http.ResponseWriter, q *http.Request) {
	// 請求方法、結構體校驗
	if q.Method != http.MethodGet && q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := dto.DecodePlayRequest(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// 請求解析完成，設置超時 context
	ctx := q.Context()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// 開始 Play
	result, err := c.rt.Play(ctx, req)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		httperr.Errs(w, err)
		return
	}
}

// ============================================================
// ** PlayHandler **
// ============================================================

type PlayHandler struct {
	rt *matchlab.MatchRuntime
}

func NewPlayHandler(sCfg *svrcfg.SvrCfg) (*PlayHandler, error) {
	rt, err := sCfg.Matchlab.BuildRuntime(sCfg.PoolBufSize)
	if err != nil {
		return nil, errs.Wrap(err, "build play handler error")
	}
	return &PlayHandler{rt: rt}, nil
}
