package wrap

import "context"

// LogCtx carries request-scoped fields that every log line and wrapped
// error should include.
type LogCtx struct {
	Action    string
	UserID    string
	RequestID string
	RideID    string
}

type logCtxKeyStruct struct{}

// LogCtxKey is the context key under which LogCtx values travel.
var LogCtxKey = &logCtxKeyStruct{}

func fromContext(ctx context.Context) LogCtx {
	if lc, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
		return lc
	}
	return LogCtx{}
}

// WithAction sets the current action, keeping the other fields.
func WithAction(ctx context.Context, action string) context.Context {
	lc := fromContext(ctx)
	lc.Action = action
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithUserID sets the acting user id, keeping the other fields.
func WithUserID(ctx context.Context, userID string) context.Context {
	lc := fromContext(ctx)
	lc.UserID = userID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithRequestID sets the request id, keeping the other fields.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	lc := fromContext(ctx)
	lc.RequestID = requestID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithRideID sets the ride id, keeping the other fields.
func WithRideID(ctx context.Context, rideID string) context.Context {
	lc := fromContext(ctx)
	lc.RideID = rideID
	return context.WithValue(ctx, LogCtxKey, lc)
}
