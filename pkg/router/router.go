package router

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gorilla/sessions"
	"github.com/rs/cors"
	"github.com/yours-lab/backend/config"
	"github.com/yours-lab/backend/pkg/authenticator"
	"github.com/yours-lab/backend/pkg/logger"
	"github.com/yours-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before (or after) a handler. A non-nil returned
// context replaces the request context for the rest of the chain.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is decided, regardless of error.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux    *http.ServeMux
	routes map[string]*handlers

	db           *gorm.DB
	cfg          config.Configs
	logger       logger.Logger
	tokenEngine  authenticator.TokenEngine
	sessionStore sessions.Store
	snowflake    *snowflake.Node

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, l logger.Logger) *Router {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	return &Router{
		mux:          http.NewServeMux(),
		routes:       make(map[string]*handlers),
		db:           db,
		cfg:          cfg,
		logger:       l,
		tokenEngine:  authenticator.NewTokenEngine(cfg.Auth.TokenSecret),
		sessionStore: sessions.NewCookieStore([]byte(cfg.Session.Secret)),
		snowflake:    node,
	}
}

// Branch forks the middleware chain. Registered handlers share the same
// underlying mux, so every branch still serves from one listener.
func (r *Router) Branch() *Router {
	clone := *r
	clone.befores = append([]MiddlewareFunc{}, r.befores...)
	clone.afters = append([]MiddlewareFunc{}, r.afters...)
	clone.closers = append([]CloserFunc{}, r.closers...)
	return &clone
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// SnowFlake exposes the id generator for code running outside a
// request context, like background workers.
func (r *Router) SnowFlake() *snowflake.Node {
	return r.snowflake
}

func (r *Router) Static(pattern, root string) {
	r.mux.Handle(pattern, http.FileServer(http.Dir(root)))
}

func (r *Router) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   r.cfg.ApiServer.AllowCORS,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Authorization"},
		AllowCredentials: true,
	})

	return c.Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	registerHandler(r, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	registerHandler(r, http.MethodPost, pattern, handler)
}

func PUT[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	registerHandler(r, http.MethodPut, pattern, handler)
}

func PATCH[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	registerHandler(r, http.MethodPatch, pattern, handler)
}

func DELETE[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	registerHandler(r, http.MethodDelete, pattern, handler)
}

func (r *Router) baseContext(ctx context.Context) context.Context {
	ctx = xcontext.WithDB(ctx, r.db)
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithTokenEngine(ctx, r.tokenEngine)
	ctx = xcontext.WithSessionStore(ctx, r.sessionStore)
	ctx = xcontext.WithSnowFlake(ctx, r.snowflake)
	return ctx
}
