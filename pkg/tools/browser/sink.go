package browser

import (
	"context"

	core "github.com/entrhq/mcp-web-browser/pkg/browser"
)

type sinkKey struct{}

// ContextWithSink returns a context that routes the diagnostics of any tool
// executed with it to sink.
func ContextWithSink(ctx context.Context, sink core.Sink) context.Context {
	return context.WithValue(ctx, sinkKey{}, sink)
}

// callOptions turns the sink carried by ctx, if any, into session options.
func callOptions(ctx context.Context) []core.CallOption {
	sink, ok := ctx.Value(sinkKey{}).(core.Sink)
	if !ok || sink == nil {
		return nil
	}
	return []core.CallOption{core.WithSink(sink)}
}
