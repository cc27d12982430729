package router

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/xcontext"
)

type handlers struct {
	byMethod map[string]http.HandlerFunc
}

func (h *handlers) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler, ok := h.byMethod[req.Method]
	if !ok {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	handler(w, req)
}

func registerHandler[Request, Response any](
	r *Router,
	method, pattern string,
	handler HandlerFunc[Request, Response],
) {
	befores := r.befores
	afters := r.afters
	closers := r.closers

	wrapped := func(w http.ResponseWriter, req *http.Request) {
		ctx := r.baseContext(req.Context())
		ctx = xcontext.WithHTTPRequest(ctx, req)
		ctx = xcontext.WithHTTPWriter(ctx, w)

		defer func() {
			for _, closer := range closers {
				closer(ctx)
			}
		}()

		var err error
		for _, m := range befores {
			if ctx, err = runMiddleware(ctx, m); err != nil {
				writeError(ctx, w, err)
				return
			}
		}

		var body Request
		if err := bindRequest(req, &body); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind request of %s: %v", pattern, err)
			writeError(ctx, w, errorx.New(errorx.BadRequest, "Invalid request"))
			return
		}

		resp, err := handler(ctx, &body)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		for _, m := range afters {
			if ctx, err = runMiddleware(ctx, m); err != nil {
				writeError(ctx, w, err)
				return
			}
		}

		writeSuccess(ctx, w, resp)
	}

	if existing, ok := r.routes[pattern]; ok {
		existing.byMethod[method] = wrapped
		return
	}

	h := &handlers{byMethod: map[string]http.HandlerFunc{method: wrapped}}
	r.routes[pattern] = h
	r.mux.Handle(pattern, h)
}

func runMiddleware(ctx context.Context, m MiddlewareFunc) (context.Context, error) {
	newCtx, err := m(ctx)
	if err != nil {
		return ctx, err
	}

	if newCtx != nil {
		ctx = newCtx
	}

	return ctx, nil
}

func bindRequest(req *http.Request, obj any) error {
	if req.Method == http.MethodGet || req.Method == http.MethodDelete {
		return bindQuery(req, obj)
	}

	contentType := req.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		// Multipart handlers read the form themselves through
		// xcontext.HTTPRequest.
		return nil
	}

	if req.Body == nil || req.ContentLength == 0 {
		return nil
	}

	return json.NewDecoder(req.Body).Decode(obj)
}
