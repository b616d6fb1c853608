package puzzle

import (
	"fmt"

	"github.com/zintix-labs/matchlab/dto"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/board"
	"github.com/zintix-labs/matchlab/sdk/buf"
	"github.com/zintix-labs/matchlab/spec"
)

// GameLogic is the board game logic contract.
// Implementations should be fast and allocation-free on the hot path.
//
// GetResult must write/return the *buf.PlayResult for the given request.
// `g` provides access to the (already-initialized) runtime objects for this game instance.
//
// NOTE: BoardSetting is treated as read-only after Init. If you intentionally mutate settings,
// you are responsible for correctness and concurrency safety.
type GameLogic interface {
	GetResult(r *buf.PlayRequest, g *Game) *buf.PlayResult
}

// RuleProvider is an optional extension of GameLogic: logic modules that want to
// veto swaps beyond the built-in movability check return their rule chain here.
// It is consulted once, while the board is being built.
type RuleProvider interface {
	SwapRules(g *Game) []board.Rule
}

// LogicBuilder builds a GameLogic instance bound to a specific *Game (per-session/per-game instance).
// It is invoked during game initialization, before the board exists: builders must not
// touch g.Board (use SwapRules / GetResult for board access).
type LogicBuilder func(g *Game) (GameLogic, error)

// GameRegister registers:
//  1. the logic builder for rkey
//  2. the DTO renderer for the extend-result type T (must match the game logic output)
//
// This is intentionally a free function (not a method) because methods cannot be generic.
func GameRegister[T buf.ExtendResult](rkey spec.RuleKey, builder LogicBuilder, reg *LogicRegistry) error {
	// 1) register builder
	if err := reg.Register(rkey, builder); err != nil {
		return err
	}

	// 2) register extend result renderer
	dto.RegisterExtendRender[T](rkey)
	return nil
}

type LogicRegistry struct {
	builders map[spec.RuleKey]LogicBuilder
}

func NewLogicRegistry() *LogicRegistry {
	return &LogicRegistry{
		builders: make(map[spec.RuleKey]LogicBuilder, 64),
	}
}

func (r *LogicRegistry) Register(rkey spec.RuleKey, b LogicBuilder) error {
	if _, ok := r.builders[rkey]; ok {
		return errs.NewFatal("duplicate logic builder")
	}
	r.builders[rkey] = b
	return nil
}

func (r *LogicRegistry) Build(rkey spec.RuleKey, g *Game) (GameLogic, error) {
	b, ok := r.builders[rkey]
	if !ok {
		return nil, errs.NewFatal(fmt.Sprintf("logic is not exist: %s", rkey))
	}
	return b(g)
}

func (r *LogicRegistry) IsExist(rkey spec.RuleKey) bool {
	_, ok := r.builders[rkey]
	return ok
}

// MergeLogicRegistry merges multiple registries into a new one.
//
// Because function values are not comparable in Go (except to nil), duplicate keys are treated
// as an error unconditionally. This keeps behavior deterministic and avoids “last one wins” surprises.
func MergeLogicRegistry(regs ...*LogicRegistry) (*LogicRegistry, error) {
	lr := NewLogicRegistry()

	// Track where a key first came from to produce a useful error message.
	origin := make(map[spec.RuleKey]int, 64)

	for i, r := range regs {
		if r == nil {
			continue
		}
		for rkey, builder := range r.builders {
			if _, ok := lr.builders[rkey]; ok {
				prev := origin[rkey]
				return nil, errs.NewFatal(fmt.Sprintf("duplicate logic key %s (registry #%d and #%d)", rkey, prev, i))
			}
			lr.builders[rkey] = builder
			origin[rkey] = i
		}
	}

	return lr, nil
}
