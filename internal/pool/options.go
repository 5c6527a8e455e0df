package pool

import "go.uber.org/zap"

type options struct {
	log          *zap.Logger
	checkTrailer bool
}

// Option configures construction and loading of a pool.
type Option func(*options)

// WithLogger sets the logger used while building, loading and dumping.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithTrailerCheck enables verification of the archive trailer on load.
func WithTrailerCheck(enabled bool) Option {
	return func(o *options) {
		o.checkTrailer = enabled
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
