package client

import (
	"context"

	"github.com/khatapp/khata/internal/query"
)

// Local serves requests straight from the in-process query engine. This is
// the production configuration: no network, local storage only.
type Local struct {
	engine *query.Engine
}

func NewLocal(engine *query.Engine) *Local {
	return &Local{engine: engine}
}

func (l *Local) Do(ctx context.Context, req query.Request) query.Response {
	return l.engine.Do(ctx, req)
}
