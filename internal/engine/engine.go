// Package engine drives the two call shapes of the assist protocol:
// a cheap check pass over every handler, and a compute pass for one
// chosen assist.
package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"lumen/internal/assist"
	"lumen/internal/source"
)

// ErrUnknownAssist is returned when no handler registered under the
// requested id reports itself applicable.
var ErrUnknownAssist = errors.New("no applicable assist with this id")

// Options configures an Engine.
type Options struct {
	// Disabled lists assist ids excluded from both passes.
	Disabled []string
	// Jobs bounds the parallel check pass; 0 means GOMAXPROCS.
	Jobs int
}

// Engine runs a fixed, ordered set of handlers against a database.
// Handler order is the tie-break for equally specific results, so it
// is part of the engine's observable behaviour.
type Engine struct {
	db       *Database
	handlers []assist.Handler
	disabled map[assist.ID]bool
	jobs     int
}

// New creates an engine over the default handler set.
func New(db *Database, handlers []assist.Handler, opts Options) *Engine {
	disabled := make(map[assist.ID]bool, len(opts.Disabled))
	for _, id := range opts.Disabled {
		disabled[assist.ID(id)] = true
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return &Engine{
		db:       db,
		handlers: handlers,
		disabled: disabled,
		jobs:     jobs,
	}
}

// List runs the check-only pass: every handler, no edit computation.
// Handlers are independent readers of the shared immutable tree, so
// they run in parallel; результаты собираются в порядке регистрации.
func (e *Engine) List(ctx context.Context, frange source.Span) ([]assist.Label, error) {
	results := make([]*assist.Assist, len(e.handlers))

	base, err := assist.NewContext(e.db, frange, false)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(e.jobs, max(len(e.handlers), 1)))

	for i, handler := range e.handlers {
		i, handler := i, handler
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = handler(base.Clone())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	labels := make([]assist.Label, 0, len(results))
	for _, res := range results {
		if res == nil || e.disabled[res.Label.ID] {
			continue
		}
		labels = append(labels, res.Label)
	}
	return labels, nil
}

// Resolve runs the compute pass for the assist with the given id.
// Applicability is re-derived from scratch: the source may have
// changed since the check pass and an earlier verdict proves nothing.
func (e *Engine) Resolve(frange source.Span, id assist.ID) (*assist.Assist, error) {
	if e.disabled[id] {
		return nil, fmt.Errorf("engine: assist %q is disabled: %w", id, ErrUnknownAssist)
	}
	for _, handler := range e.handlers {
		actx, err := assist.NewContext(e.db, frange, true)
		if err != nil {
			return nil, err
		}
		res := handler(actx)
		if res == nil || res.Label.ID != id {
			continue
		}
		return res, nil
	}
	return nil, fmt.Errorf("engine: %q: %w", id, ErrUnknownAssist)
}

// ResolveAll runs the compute pass for every applicable handler and
// sorts the results by specificity.
func (e *Engine) ResolveAll(frange source.Span) ([]*assist.Assist, error) {
	var out []*assist.Assist
	for _, handler := range e.handlers {
		actx, err := assist.NewContext(e.db, frange, true)
		if err != nil {
			return nil, err
		}
		res := handler(actx)
		if res == nil || e.disabled[res.Label.ID] {
			continue
		}
		out = append(out, res)
	}
	sortBySpecificity(out)
	return out, nil
}

// sortBySpecificity orders assists by the length of their best
// action's target span, smallest (most specific) first. Assists
// without a target sort last; ties keep registration order.
func sortBySpecificity(assists []*assist.Assist) {
	sort.SliceStable(assists, func(i, j int) bool {
		li, iok := targetLen(assists[i])
		lj, jok := targetLen(assists[j])
		if iok != jok {
			return iok
		}
		if !iok {
			return false
		}
		return li < lj
	})
}

func targetLen(a *assist.Assist) (uint32, bool) {
	best := ^uint32(0)
	found := false
	for _, action := range a.Actions() {
		if action.Target == nil {
			continue
		}
		if l := action.Target.Len(); !found || l < best {
			best = l
			found = true
		}
	}
	return best, found
}
