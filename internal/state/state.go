package state

import (
	"github.com/sidereusnuntius/gofederate/internal/config"
	"github.com/sidereusnuntius/gofederate/internal/db"
	"github.com/sidereusnuntius/gofederate/internal/federation/fedb"
	"github.com/sidereusnuntius/gofederate/internal/gateway"
)

// State is shared by the HTTP handlers.
type State struct {
	Config     *config.Configuration
	DB         db.DB
	Cache      *fedb.FedDB
	Dispatcher *gateway.Dispatcher
}
