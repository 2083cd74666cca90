// Package templink holds the temporary link entity and the collaborator
// contracts used when a link is dispatched.
package templink

import (
	"strings"
	"time"
)

// Link is a single temporary access grant. Its fields never change after
// construction; only its presence in a store does.
type Link[R any] struct {
	token      string
	expiration time.Time
	oneTime    bool
	method     string
	refs       R
	redirect   string
	callback   Callback
}

// NewLink builds a link. method is normalized to upper case and an empty
// method means any method is accepted.
func NewLink[R any](
	token string,
	expiration time.Time,
	oneTime bool,
	method string,
	refs R,
	redirect string,
	callback Callback,
) (*Link[R], error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	if expiration.IsZero() {
		return nil, ErrInvalidExpiration
	}

	return &Link[R]{
		token:      token,
		expiration: expiration.UTC(),
		oneTime:    oneTime,
		method:     NormalizeMethod(method),
		refs:       refs,
		redirect:   redirect,
		callback:   callback,
	}, nil
}

// NormalizeMethod trims and upper-cases an HTTP method.
func NormalizeMethod(method string) string {
	return strings.ToUpper(strings.TrimSpace(method))
}

// IsExpired reports whether the link expiration is at or before now.
func (l *Link[R]) IsExpired(now time.Time) bool {
	return !now.Before(l.expiration)
}

// AcceptsMethod reports whether a request with the given method may
// consume the link.
func (l *Link[R]) AcceptsMethod(method string) bool {
	if l.method == "" {
		return true
	}
	return l.method == NormalizeMethod(method)
}

// HasAction reports whether the link redirects or invokes a callback.
func (l *Link[R]) HasAction() bool {
	return l.redirect != "" || l.callback != nil
}

func (l *Link[R]) Token() string {
	return l.token
}

func (l *Link[R]) Expiration() time.Time {
	return l.expiration
}

func (l *Link[R]) OneTime() bool {
	return l.oneTime
}

// Method returns the required HTTP method, or "" when any method matches.
func (l *Link[R]) Method() string {
	return l.method
}

func (l *Link[R]) Refs() R {
	return l.refs
}

func (l *Link[R]) Redirect() string {
	return l.redirect
}

func (l *Link[R]) Callback() Callback {
	return l.callback
}
