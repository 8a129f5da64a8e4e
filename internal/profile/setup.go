package profile

import (
	"github.com/RebootDash/RD-Backend/internal/config"
	"github.com/RebootDash/RD-Backend/internal/profile/intra"
)

var (
	client *intra.Client
	cache  *Cache
)

// Init wires the GraphQL client and the snapshot cache. The poller is
// started separately so tools that fetch once (cmd/probe) skip it.
func Init(cfg config.Config) {
	client = intra.NewClient(cfg.GraphQLEndpoint)
	cache = NewCache()
}
