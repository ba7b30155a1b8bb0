package lending

import (
	"context"

	"lendpool/core"
)

type guardKey struct {
	e *Engine
}

func (e *Engine) entered(ctx context.Context) bool {
	return ctx.Value(guardKey{e: e}) != nil
}

// enter acquire the engine for a mutating call. The returned context is the one
// handed to collaborators, calling back into the engine with it (or any context
// derived from it) is rejected. A callback with an unrelated context blocks.
func (e *Engine) enter(ctx context.Context) (context.Context, func(), error) {
	if e.entered(ctx) {
		return ctx, nil, core.ErrReentrantCall
	}

	e.mux.Lock()
	return context.WithValue(ctx, guardKey{e: e}, true), e.mux.Unlock, nil
}

// view acquire the engine for a read-only call, callbacks made during an
// operation read the in-progress state without locking
func (e *Engine) view(ctx context.Context) (context.Context, func()) {
	if e.entered(ctx) {
		return ctx, func() {}
	}

	e.mux.RLock()
	return context.WithValue(ctx, guardKey{e: e}, true), e.mux.RUnlock
}
