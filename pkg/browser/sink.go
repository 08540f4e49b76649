package browser

// Sink receives diagnostic messages. Messages written to a Sink never reach
// an operation's return value. *logging.Logger satisfies Sink.
type Sink interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

type nopSink struct{}

func (nopSink) Debugf(string, ...interface{}) {}
func (nopSink) Infof(string, ...interface{})  {}
func (nopSink) Warnf(string, ...interface{})  {}
func (nopSink) Errorf(string, ...interface{}) {}

// CallOption customizes a single session operation.
type CallOption func(*callConfig)

type callConfig struct {
	sink Sink
}

// WithSink routes the operation's diagnostics to s instead of the session logger.
func WithSink(s Sink) CallOption {
	return func(c *callConfig) {
		if s != nil {
			c.sink = s
		}
	}
}

func (s *Session) resolve(opts []CallOption) callConfig {
	cfg := callConfig{sink: s.logger}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
