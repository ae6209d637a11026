package component

import (
	"reflect"

	"github.com/a-peyrard/component/option"
	"github.com/rs/zerolog"
)

const defaultPreloadConcurrency = 4

type (
	// Options of a Cache.
	Options struct {
		logger             zerolog.Logger
		policy             AccessPolicy
		preloadConcurrency int
		onFailure          FailureHandler
	}

	// FailureHandler is notified of every component rejected by the cache, with the typed error.
	FailureHandler func(typ reflect.Type, err error)
)

func defaultOptions() *Options {
	return &Options{
		logger:             zerolog.Nop(),
		policy:             Elevated,
		preloadConcurrency: defaultPreloadConcurrency,
	}
}

func WithLogger(logger zerolog.Logger) option.Option[Options] {
	return func(opts *Options) {
		opts.logger = logger
	}
}

func WithAccessPolicy(policy AccessPolicy) option.Option[Options] {
	return func(opts *Options) {
		opts.policy = policy
	}
}

// WithPreloadConcurrency bounds the number of components constructed in parallel by Preload.
func WithPreloadConcurrency(concurrency int) option.Option[Options] {
	return func(opts *Options) {
		if concurrency > 0 {
			opts.preloadConcurrency = concurrency
		}
	}
}

func WithFailureHandler(handler FailureHandler) option.Option[Options] {
	return func(opts *Options) {
		opts.onFailure = handler
	}
}
