package handlers

import (
	"sync"

	intconfig "transitpay/internal/config"
	"transitpay/internal/events"
	"transitpay/internal/holds"
	"transitpay/internal/paystack"

	"github.com/gin-gonic/gin"
)

// AppDeps carries the collaborators handlers need. Configuration is injected
// at startup instead of being read from mutable module-scope caches.
type AppDeps struct {
	Env       intconfig.Env
	Provider  *paystack.Client
	Events    *events.Publisher
	HoldIndex *holds.Index
}

var (
	appMu sync.RWMutex
	app   AppDeps
)

// Configure stores the active dependency set. Called once from main.
func Configure(d AppDeps) {
	appMu.Lock()
	defer appMu.Unlock()
	app = d
}

func deps() AppDeps {
	appMu.RLock()
	defer appMu.RUnlock()
	return app
}

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}
