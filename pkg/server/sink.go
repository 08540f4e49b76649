package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrhq/mcp-web-browser/pkg/logging"
)

const loggerName = "mcp-web-browser"

// callSink writes the diagnostics of one tool call to the component logger
// and forwards them to the client as log notifications. The client only
// receives levels it asked for via logging/setLevel.
type callSink struct {
	ctx    context.Context
	logger *logging.Logger
	peer   *mcp.ServerSession
}

func newCallSink(ctx context.Context, logger *logging.Logger, peer *mcp.ServerSession) *callSink {
	return &callSink{ctx: ctx, logger: logger, peer: peer}
}

func (c *callSink) Debugf(format string, v ...interface{}) {
	c.logger.Debugf(format, v...)
	c.forward("debug", format, v...)
}

func (c *callSink) Infof(format string, v ...interface{}) {
	c.logger.Infof(format, v...)
	c.forward("info", format, v...)
}

func (c *callSink) Warnf(format string, v ...interface{}) {
	c.logger.Warnf(format, v...)
	c.forward("warning", format, v...)
}

func (c *callSink) Errorf(format string, v ...interface{}) {
	c.logger.Errorf(format, v...)
	c.forward("error", format, v...)
}

func (c *callSink) forward(level mcp.LoggingLevel, format string, v ...interface{}) {
	if c.peer == nil {
		return
	}
	err := c.peer.Log(c.ctx, &mcp.LoggingMessageParams{
		Level:  level,
		Logger: loggerName,
		Data:   fmt.Sprintf(format, v...),
	})
	if err != nil {
		c.logger.Debugf("failed to forward log message: %v", err)
	}
}
