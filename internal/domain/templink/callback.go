package templink

// Request is the part of an incoming request the dispatch hook reads.
type Request interface {
	// Param returns the named path parameter, or "" when it is not present.
	Param(name string) string
	// Method returns the HTTP method of the request.
	Method() string
	// Attach stores a value on the request for downstream handlers.
	Attach(key string, value any)
}

// Response is the part of an outgoing response the dispatch hook drives.
type Response interface {
	Redirect(location string)
}

// Next continues with the following handler in the chain.
type Next func()

// Callback is the action bound to a link when it does not redirect.
// It fully owns the request once invoked, including whether next is called.
type Callback interface {
	Invoke(req Request, resp Response, next Next)
}

// CallbackFunc adapts an ordinary function to Callback.
type CallbackFunc func(req Request, resp Response, next Next)

// Invoke calls f(req, resp, next).
func (f CallbackFunc) Invoke(req Request, resp Response, next Next) {
	f(req, resp, next)
}
