// Package client gives callers one interface to the data layer, whether it is
// served in-process from local storage or by a remote development server. The
// caller cannot tell the two apart.
package client

import (
	"context"

	"github.com/khatapp/khata/internal/platform/config"
	"github.com/khatapp/khata/internal/query"
)

// Client executes resource requests. Do always resolves to a Response;
// transport and storage failures surface as error responses, never as Go
// errors, matching the query engine's own contract.
type Client interface {
	Do(ctx context.Context, req query.Request) query.Response
}

// New picks the configured backend: a remote base URL selects the HTTP
// client, otherwise requests run against the local engine.
func New(cfg *config.Config, engine *query.Engine) Client {
	if cfg.RemoteBaseURL != "" {
		return NewRemote(cfg.RemoteBaseURL, cfg.RemoteTimeout)
	}
	return NewLocal(engine)
}
