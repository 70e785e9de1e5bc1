package wrap

import (
	"context"
	"errors"
)

// errorWithLogCtx attaches the LogCtx active at wrap time to an error, so
// the caller that finally logs it can restore the fields of the failing
// frame instead of its own.
type errorWithLogCtx struct {
	err    error
	logCtx LogCtx
}

func (e *errorWithLogCtx) Error() string {
	return e.err.Error()
}

func (e *errorWithLogCtx) Unwrap() error {
	return e.err
}

// Error wraps err with the LogCtx currently in ctx. Wrapping an already
// wrapped error updates the carried context.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var e *errorWithLogCtx
	if errors.As(err, &e) {
		e.logCtx = fromContext(ctx)
		return err
	}

	return &errorWithLogCtx{
		err:    err,
		logCtx: fromContext(ctx),
	}
}

// ErrorCtx returns ctx enriched with the LogCtx carried by err, if any.
func ErrorCtx(ctx context.Context, err error) context.Context {
	var e *errorWithLogCtx
	if errors.As(err, &e) && e != nil {
		return context.WithValue(ctx, LogCtxKey, e.logCtx)
	}
	return ctx
}
