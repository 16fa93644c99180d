package ctxutil

import "context"

type traceDataKey struct{}

// TraceData identifies one request across logs and spans. ProgramID is the
// route's program when the path carries one.
type TraceData struct {
	TraceID   string
	RequestID string
	ProgramID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	val := ctx.Value(traceDataKey{})
	if td, ok := val.(*TraceData); ok {
		return td
	}
	return nil
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
