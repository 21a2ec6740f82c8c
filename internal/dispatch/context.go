package dispatch

import (
	"sync"

	"github.com/storelink/woo-mcp-gateway/internal/tenant"
	"github.com/storelink/woo-mcp-gateway/internal/woo"
)

// RequestContext carries everything scoped to a single HTTP exchange: the
// request ID, the resolved tenant, and the store client built for it. Exactly
// one is created per request and it never outlives the request.
type RequestContext struct {
	ID     string
	Tenant tenant.Record
	Client *woo.Client

	closeOnce sync.Once
	onClose   func()
}

// Close releases the request's resources. It is safe to call more than once;
// only the first call has any effect.
func (rc *RequestContext) Close() {
	rc.closeOnce.Do(func() {
		if rc.onClose != nil {
			rc.onClose()
		}
	})
}
