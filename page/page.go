// SPDX-License-Identifier: MIT

// Package page schedules background solves of one recipe network.
//
// A Page owns a model.Network and a root table. Edits go through Edit, which
// runs under the page's model lock and then calls Update. Update starts a
// background solve when the network's structural version differs from the
// last solved one. While a solve is in flight, further changes only set a
// pending flag; the running goroutine re-solves as soon as it finishes, so at
// most one solve per page runs at a time and no change is lost.
//
// The model lock is released only around the LP call itself, so readers
// (View) and editors may proceed while the numeric work runs.
package page

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/prodnet/model"
	"github.com/katalvlaran/prodnet/solver"
)

// Sentinel errors.
var (
	ErrNilNetwork = errors.New("page: network is nil")
	ErrClosed     = errors.New("page: closed")
)

// Option configures a Page.
type Option func(p *Page)

// WithLogger sets the page logger; it is also handed to the solver.
func WithLogger(l *zap.Logger) Option {
	return func(p *Page) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithName sets a display name used in logs.
func WithName(name string) Option {
	return func(p *Page) { p.name = name }
}

// WithSolverOptions forwards options to the page's solver.
func WithSolverOptions(opts ...solver.Option) Option {
	return func(p *Page) { p.solverOpts = append(p.solverOpts, opts...) }
}

// Page is one independently solved factory.
type Page struct {
	id         uuid.UUID
	name       string
	logger     *zap.Logger
	solverOpts []solver.Option
	solver     *solver.Solver

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex // model lock
	net  *model.Network
	root model.TableID

	state          sync.Mutex // guards the fields below; taken after mu, never before
	solvedVersion  uint64
	solvingVersion uint64
	solved         bool
	running        bool
	pending        bool
	closed         bool
	idle           chan struct{}
	message        string
	err            error
}

// New creates a page over net rooted at root.
func New(net *model.Network, root model.TableID, opts ...Option) (*Page, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	if net.Table(root) == nil {
		return nil, fmt.Errorf("page root %d: %w", root, model.ErrUnknownTable)
	}

	p := &Page{id: uuid.New(), logger: zap.NewNop(), net: net, root: root}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(zap.Stringer("page", p.id), zap.String("name", p.name))
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.solver = solver.New(append([]solver.Option{solver.WithLogger(p.logger)},
		append(p.solverOpts, solver.WithSuspend(p.suspend))...)...)

	return p, nil
}

// ID returns the page identity.
func (p *Page) ID() uuid.UUID { return p.id }

// Name returns the display name.
func (p *Page) Name() string { return p.name }

// Root returns the root table handle.
func (p *Page) Root() model.TableID { return p.root }

// suspend releases the model lock around the LP call.
func (p *Page) suspend(run func()) {
	p.mu.Unlock()
	defer p.mu.Lock()
	run()
}

// View runs fn under the model lock without scheduling a solve.
func (p *Page) View(fn func(net *model.Network)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.net)
}

// Edit runs fn under the model lock, marks the network changed and schedules a solve.
func (p *Page) Edit(fn func(net *model.Network)) error {
	p.mu.Lock()
	fn(p.net)
	p.net.Touch()
	p.mu.Unlock()

	return p.Update()
}

// Update schedules a solve if the network changed since the last one.
func (p *Page) Update() error {
	p.mu.Lock()
	v := p.net.Version()
	p.mu.Unlock()

	p.state.Lock()
	defer p.state.Unlock()
	switch {
	case p.closed:
		return ErrClosed
	case p.running:
		if v != p.solvingVersion {
			p.pending = true
		}
	case p.solved && v == p.solvedVersion:
	default:
		p.running = true
		p.idle = make(chan struct{})
		go p.loop()
	}

	return nil
}

// loop solves until no change is pending.
func (p *Page) loop() {
	for {
		p.mu.Lock()
		v := p.net.Version()
		p.state.Lock()
		p.solvingVersion = v
		p.pending = false
		p.state.Unlock()

		p.logger.Debug("solve started", zap.Uint64("version", v))
		msg, err := p.solver.Solve(p.ctx, p.net, p.root)
		p.mu.Unlock()

		switch {
		case err != nil:
			p.logger.Warn("solve aborted", zap.Error(err))
		case msg != "":
			p.logger.Info("solve finished with message", zap.String("message", msg))
		default:
			p.logger.Debug("solve finished", zap.Uint64("version", v))
		}

		p.state.Lock()
		p.solvedVersion, p.solved = v, true
		p.message, p.err = msg, err
		if !p.pending || p.closed {
			p.running = false
			close(p.idle)
			p.state.Unlock()

			return
		}
		p.state.Unlock()
	}
}

// Wait blocks until no solve is running or ctx ends.
func (p *Page) Wait(ctx context.Context) error {
	p.state.Lock()
	running, idle := p.running, p.idle
	p.state.Unlock()
	if !running {
		return nil
	}
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Result returns the outcome of the most recent solve.
func (p *Page) Result() (message string, err error) {
	p.state.Lock()
	defer p.state.Unlock()

	return p.message, p.err
}

// SolvedVersion returns the network version the last solve started from and
// whether any solve completed.
func (p *Page) SolvedVersion() (uint64, bool) {
	p.state.Lock()
	defer p.state.Unlock()

	return p.solvedVersion, p.solved
}

// Close aborts an in-flight solve and rejects further updates.
func (p *Page) Close() {
	p.state.Lock()
	p.closed = true
	p.state.Unlock()
	p.cancel()
}
