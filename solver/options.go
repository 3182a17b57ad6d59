// SPDX-License-Identifier: MIT

package solver

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/prodnet/config"
	"github.com/katalvlaran/prodnet/lp"
	"github.com/katalvlaran/prodnet/model"
)

// ParameterProvider computes the per-row scalars; params.Standard implements it.
type ParameterProvider interface {
	Compute(r *model.Recipe, e *model.Entity, fuel *model.Goods, m model.ModuleEffects) model.Parameters
}

// CostFunc returns the unit cost of a goods.
type CostFunc func(g *model.Goods) float64

// Option configures a Solver.
type Option func(s *Solver)

// WithLogger sets the logger. Passing nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithParameters replaces the parameter provider built from the settings.
func WithParameters(p ParameterProvider) Option {
	return func(s *Solver) { s.params = p }
}

// WithCost replaces params.GoodsCost as the cost function.
func WithCost(f CostFunc) Option {
	return func(s *Solver) {
		if f != nil {
			s.cost = f
		}
	}
}

// WithBackend replaces the simplex backend.
func WithBackend(b lp.Backend) Option {
	return func(s *Solver) { s.backend = b }
}

// WithSettings replaces config.Default. Panics on settings that fail Validate.
func WithSettings(cfg config.Settings) Option {
	if err := cfg.Validate(); err != nil {
		panic("solver: WithSettings: " + err.Error())
	}

	return func(s *Solver) { s.settings = cfg }
}

// WithSuspend installs the hook wrapped around every LP solve. The hook must
// call run exactly once; callers use it to release shared locks while the
// numeric work runs.
func WithSuspend(hook func(run func())) Option {
	return func(s *Solver) {
		if hook != nil {
			s.suspend = hook
		}
	}
}
