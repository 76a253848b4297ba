package objcache

import "log/slog"

type options struct {
	logger *slog.Logger
}

// Option configures a Cache or PropertyCache.
type Option func(*options)

// WithLogger sets the logger used to report dropped signals.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
