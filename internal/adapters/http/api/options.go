package api

import "github.com/okian/talentscope/pkg/logger"

const defaultMaxCandidateLimit = 100

type options struct {
	maxCandidateLimit int
	logger            logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*options)

// WithMaxCandidateLimit caps GET /candidates?limit.
func WithMaxCandidateLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxCandidateLimit = n
		}
	}
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
