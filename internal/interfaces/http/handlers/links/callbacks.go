package links

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/templink/internal/domain/templink"
	"github.com/orris-inc/templink/internal/interfaces/http/middleware"
)

// EchoCallbackName is the built-in callback that answers with the link refs.
const EchoCallbackName = "echo"

// CallbackRegistry maps names to callbacks so that links created over the
// API, or restored from a snapshot, can be bound to server-side code.
type CallbackRegistry struct {
	mu        sync.RWMutex
	callbacks map[string]templink.Callback
}

// NewCallbackRegistry creates a registry holding the built-in callbacks.
func NewCallbackRegistry() *CallbackRegistry {
	r := &CallbackRegistry{callbacks: make(map[string]templink.Callback)}
	r.callbacks[EchoCallbackName] = templink.CallbackFunc(echoRefs)
	return r
}

// Register adds cb under name. Names are unique.
func (r *CallbackRegistry) Register(name string, cb templink.Callback) error {
	if name == "" || cb == nil {
		return fmt.Errorf("callback name and function are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.callbacks[name]; exists {
		return fmt.Errorf("callback %q is already registered", name)
	}
	r.callbacks[name] = cb
	return nil
}

func (r *CallbackRegistry) Lookup(name string) (templink.Callback, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cb, ok := r.callbacks[name]
	return cb, ok
}

// Resolve returns the callback for name. The empty name resolves to nil.
func (r *CallbackRegistry) Resolve(name string) (templink.Callback, error) {
	if name == "" {
		return nil, nil
	}
	cb, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown callback %q", name)
	}
	return cb, nil
}

// Names lists the registered callback names in order.
func (r *CallbackRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.callbacks))
	for name := range r.callbacks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func echoRefs(req templink.Request, _ templink.Response, next templink.Next) {
	c, ok := middleware.GinContext(req)
	if !ok {
		next()
		return
	}
	lc, ok := middleware.LinkContextFrom[LinkRefs](c)
	if !ok {
		next()
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"refs": lc.Refs},
	})
}
