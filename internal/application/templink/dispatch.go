package templink

import (
	"github.com/orris-inc/templink/internal/domain/templink"
	"github.com/orris-inc/templink/internal/shared/utils"
)

// ContextKey is the request key under which a matched link's LinkContext
// is attached.
const ContextKey = "templink"

// OutcomeKey is the request key under which the Outcome is attached when the
// request carried a token.
const OutcomeKey = "templink.outcome"

// Outcome is the result of dispatching one request.
type Outcome int

const (
	// TokenAbsent means the request carried no token.
	TokenAbsent Outcome = iota
	// TokenUnknown means the token is not live in the store.
	TokenUnknown
	// MethodMismatch means the link requires another HTTP method. The link
	// is left untouched.
	MethodMismatch
	// Matched means the link was accepted and its action ran.
	Matched
)

func (o Outcome) String() string {
	switch o {
	case TokenAbsent:
		return "token_absent"
	case TokenUnknown:
		return "token_unknown"
	case MethodMismatch:
		return "method_mismatch"
	case Matched:
		return "matched"
	default:
		return "invalid"
	}
}

// LinkContext is what downstream handlers and callbacks see of a matched link.
type LinkContext[R any] struct {
	Store *Store[R]
	Refs  R
	// Delete removes the link. It does nothing for one-time links, which
	// are already gone by the time handlers run.
	Delete func()
}

// Dispatch matches the token carried by req and runs the bound action:
// redirect first, then callback, otherwise next. Every non-matching case
// falls through to next without touching the store.
func (s *Store[R]) Dispatch(req templink.Request, resp templink.Response, next templink.Next) Outcome {
	if next == nil {
		next = func() {}
	}

	token := req.Param(s.cfg.ParamName)
	if token == "" {
		next()
		return TokenAbsent
	}

	link, outcome := s.consume(token, req.Method())
	req.Attach(OutcomeKey, outcome)
	if outcome != Matched {
		s.logger.Debugw("link dispatch passed through",
			"token", utils.MaskToken(token),
			"outcome", outcome.String(),
			"method", req.Method(),
		)
		next()
		return outcome
	}

	deleteFn := func() {}
	if !link.OneTime() {
		deleteFn = func() { s.Delete(token) }
	}
	req.Attach(ContextKey, &LinkContext[R]{
		Store:  s,
		Refs:   link.Refs(),
		Delete: deleteFn,
	})

	switch {
	case link.Redirect() != "":
		resp.Redirect(link.Redirect())
	case link.Callback() != nil:
		link.Callback().Invoke(req, resp, next)
	default:
		next()
	}
	return Matched
}

// consume looks token up and, for one-time links, removes it in the same
// critical section so that only one request can ever match it. Links past
// their expiration are reported unknown but left for the sweeper.
func (s *Store[R]) consume(token, method string) (*templink.Link[R], Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[token]
	if !ok {
		return nil, TokenUnknown
	}
	now := s.nowFunc()
	if link.IsExpired(now) {
		return nil, TokenUnknown
	}
	if !link.AcceptsMethod(method) {
		return nil, MethodMismatch
	}
	if link.OneTime() {
		delete(s.links, token)
		if s.consumed != nil {
			s.consumed.Record(token, now)
		}
	}
	return link, Matched
}
