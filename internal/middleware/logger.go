package middleware

import (
	"context"

	"github.com/yours-lab/backend/pkg/router"
	"github.com/yours-lab/backend/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return
		}

		xcontext.Logger(ctx).Infof("%s | %s", req.Method, req.URL.Path)
	}
}
