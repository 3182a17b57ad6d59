// SPDX-License-Identifier: MIT

package solver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/prodnet/config"
	"github.com/katalvlaran/prodnet/lp"
	"github.com/katalvlaran/prodnet/model"
	"github.com/katalvlaran/prodnet/params"
)

// Messages returned by Solve.
const (
	MsgBuiltCountExceeded = "This model requires more buildings than are currently built"
	MsgUnsolvable         = "Failed to solve the model and to find deadlock loops. As a result, the model was not updated."
	MsgNumerical          = "This model has numerical errors (probably too small or too large numbers) and cannot be solved"
)

// ErrNilNetwork is returned when Solve receives a nil network.
var ErrNilNetwork = errors.New("solver: network is nil")

// Solver compiles and solves recipe networks. A Solver holds no per-solve
// state and may be shared; each Network must be solved by one goroutine at a time.
type Solver struct {
	logger   *zap.Logger
	params   ParameterProvider
	cost     CostFunc
	backend  lp.Backend
	settings config.Settings
	suspend  func(run func())
}

// New builds a Solver. Unless overridden, the parameter provider is
// params.Standard configured from the settings and the backend is lp.Simplex
// with the settings' simplex tolerance.
func New(opts ...Option) *Solver {
	s := &Solver{
		logger:   zap.NewNop(),
		cost:     params.GoodsCost,
		settings: config.Default(),
		suspend:  func(run func()) { run() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.params == nil {
		s.params = params.NewStandard(
			params.WithTickRate(s.settings.TickRate),
			params.WithMiningProductivity(s.settings.MiningProductivity),
		)
	}
	if s.backend == nil {
		s.backend = lp.Simplex{Tol: s.settings.SimplexTolerance}
	}

	return s
}

// Solve balances table and every table nested under its enabled rows.
//
// The returned message is empty on full success. A non-empty message
// describes a model that could not be solved (row throughputs keep their
// previous values) or a solved model with exceeded built counts.
func (s *Solver) Solve(ctx context.Context, net *model.Network, table model.TableID) (string, error) {
	if net == nil {
		return "", ErrNilNetwork
	}
	if net.Table(table) == nil {
		return "", fmt.Errorf("solve table %d: %w", table, model.ErrUnknownTable)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p := s.compile(net, table)
	s.logger.Debug("model compiled",
		zap.Int("table", int(table)),
		zap.Int("rows", len(p.rows)),
		zap.Int("links", len(p.links)))

	st, err := s.run(ctx, p.problem)
	if err != nil {
		return "", err
	}
	if !st.Solved() {
		s.logger.Info("primary solve failed, searching for deadlocks", zap.Stringer("status", st))
		if st, err = s.diagnose(ctx, p); err != nil {
			return "", err
		}
		if !st.Solved() {
			s.logger.Warn("model could not be solved", zap.Stringer("status", st))
			if st == lp.Abnormal {
				return MsgNumerical, nil
			}

			return MsgUnsolvable, nil
		}
	}

	s.logger.Debug("model solved",
		zap.Stringer("status", st),
		zap.Float64("objective", p.problem.ObjectiveValue()))
	s.readBack(p)
	exceeded := s.checkBuiltCount(net, table)
	s.calculateFlow(net, table, model.NoRow)

	if exceeded {
		return MsgBuiltCountExceeded, nil
	}

	return "", nil
}

func (s *Solver) run(ctx context.Context, prob *lp.Problem) (st lp.Status, err error) {
	s.suspend(func() { st, err = prob.Solve(ctx) })

	return st, err
}

// checkBuiltCount flags rows whose solved building count exceeds their built count.
func (s *Solver) checkBuiltCount(net *model.Network, t model.TableID) bool {
	exceeded := false
	for _, id := range net.Table(t).Rows() {
		row := net.Row(id)
		if !row.Enabled {
			continue
		}
		if row.BuiltBuildings > 0 && row.BuildingCount() > float64(row.BuiltBuildings)+s.settings.Tolerance {
			row.Parameters.Warnings |= model.ExceedsBuiltCount
			exceeded = true
		}
		if row.Subgroup() != model.NoTable && s.checkBuiltCount(net, row.Subgroup()) {
			exceeded = true
		}
	}

	return exceeded
}
