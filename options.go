// Copyright 2016 Aleksandr Demakin. All rights reserved.

package msgchan

import (
	"log/slog"
)

// Option configures a Registry.
type Option func(r *Registry)

// WithLogger sets the logger of the registry. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithErrorHandler sets the function, which receives callback failures.
// It is called on the loop goroutine. By default failures are logged.
func WithErrorHandler(h func(name string, err error)) Option {
	return func(r *Registry) {
		r.onError = h
	}
}

// CreateOption configures a channel being created.
type CreateOption func(o *createOptions)

type createOptions struct {
	loop Loop
	cb   Callback
}

// WithNotify binds the new channel to the loop: cb is called there for every message.
func WithNotify(loop Loop, cb Callback) CreateOption {
	return func(o *createOptions) {
		o.loop = loop
		o.cb = cb
	}
}
