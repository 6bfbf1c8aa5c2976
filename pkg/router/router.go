package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. The returned context replaces the
// context of the request.
type MiddlewareFunc func(ctx context.Context, r *http.Request) (context.Context, error)

// CloserFunc runs after the response is written, err is the error returned to
// the client if any.
type CloserFunc func(ctx context.Context, r *http.Request, err error)

type Router struct {
	Inner gin.IRouter

	ctx     context.Context
	befores []MiddlewareFunc
	closers []CloserFunc
}

// New returns a router whose handlers receive a child of ctx, so everything
// stored in ctx (configs, logger, database) is reachable from domains.
func New(ctx context.Context) *Router {
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{Inner: engine, ctx: ctx}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// Branch returns a router sharing the same routes and middlewares of r.
// Middlewares added to the branch do not affect r.
func (r *Router) Branch() *Router {
	return &Router{
		Inner:   r.Inner,
		ctx:     r.ctx,
		befores: append([]MiddlewareFunc{}, r.befores...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}
