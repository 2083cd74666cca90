package templink

import (
	"strings"
	"time"

	"github.com/orris-inc/templink/internal/domain/templink"
)

const (
	DefaultTimeOut   = 300 * time.Second
	DefaultInterval  = time.Second
	DefaultParamName = "templink"
)

// Config holds the store-level defaults. It is fixed once the store is built.
// Zero values mean "use the default"; negative durations are rejected.
type Config[R any] struct {
	// TimeOut is the lifetime of a link when the link does not set its own.
	// Zero means DefaultTimeOut.
	TimeOut time.Duration
	// Interval is how often the sweeper evicts expired links. Zero means
	// DefaultInterval.
	Interval time.Duration
	// OneTime defaults to true when nil.
	OneTime *bool
	// Method is the required HTTP method; empty accepts any method.
	Method    string
	Refs      R
	Redirect  string
	Callback  templink.Callback
	ParamName string
}

func (c Config[R]) withDefaults() (Config[R], error) {
	if c.TimeOut < 0 {
		return c, templink.ErrInvalidTimeout
	}
	if c.Interval < 0 {
		return c, templink.ErrInvalidInterval
	}
	if c.TimeOut == 0 {
		c.TimeOut = DefaultTimeOut
	}
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.OneTime == nil {
		c.OneTime = Ptr(true)
	}
	c.Method = templink.NormalizeMethod(c.Method)
	c.ParamName = strings.TrimSpace(c.ParamName)
	if c.ParamName == "" {
		c.ParamName = DefaultParamName
	}
	return c, nil
}

// LinkOptions overrides store defaults for a single link. Nil fields fall
// back to the store default.
type LinkOptions[R any] struct {
	TimeOut  *time.Duration
	OneTime  *bool
	Method   *string
	Refs     *R
	Redirect *string
	Callback templink.Callback
}

// Ptr returns a pointer to v. Handy for filling LinkOptions.
func Ptr[T any](v T) *T {
	return &v
}

// resolvedLink carries the fields of a link after defaults are applied.
type resolvedLink[R any] struct {
	timeOut  time.Duration
	oneTime  bool
	method   string
	refs     R
	redirect string
	callback templink.Callback
}

func (c Config[R]) resolve(opts LinkOptions[R]) resolvedLink[R] {
	r := resolvedLink[R]{
		timeOut: c.TimeOut,
		oneTime: *c.OneTime,
		method:  c.Method,
		refs:    c.Refs,
	}
	if opts.TimeOut != nil {
		// Zero or negative yields a link that is already expired.
		r.timeOut = max(*opts.TimeOut, 0)
	}
	if opts.OneTime != nil {
		r.oneTime = *opts.OneTime
	}
	if opts.Method != nil {
		r.method = templink.NormalizeMethod(*opts.Method)
	}
	if opts.Refs != nil {
		r.refs = *opts.Refs
	}

	r.redirect, r.callback = c.inheritAction(opts.Redirect, opts.Callback)
	return r
}

// inheritAction applies the redirect/callback defaults as a pair: either the
// link supplied an action and keeps exactly what it supplied, or it gets
// both store defaults. A supplied action that resolves to nothing also
// falls back to the pair.
func (c Config[R]) inheritAction(redirect *string, callback templink.Callback) (string, templink.Callback) {
	var r string
	if redirect != nil {
		r = *redirect
	}
	if r == "" && callback == nil {
		return c.Redirect, c.Callback
	}
	return r, callback
}
