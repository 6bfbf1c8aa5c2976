package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/boxmaster/pkg/errorx"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	befores := append([]MiddlewareFunc{}, router.befores...)
	closers := append([]CloserFunc{}, router.closers...)

	return func(c *gin.Context) {
		ctx := router.ctx
		var err error
		defer func() {
			for _, closer := range closers {
				closer(ctx, c.Request, err)
			}
		}()

		resp, err := func() (*Response, error) {
			for _, before := range befores {
				next, err := before(ctx, c.Request)
				if err != nil {
					return nil, err
				}

				ctx = next
			}

			req := new(Request)
			if err := bind(c, method, req); err != nil {
				return nil, errorx.New(errorx.BadRequest, "Invalid request: %v", err)
			}

			return handler(ctx, req)
		}()

		if err != nil {
			c.JSON(http.StatusOK, newErrorResponse(err))
			return
		}

		c.JSON(http.StatusOK, newResponse(resp))
	}
}

func bind(c *gin.Context, method string, req any) error {
	switch method {
	case http.MethodGet:
		return c.ShouldBindQuery(req)
	case http.MethodPost:
		return c.ShouldBindJSON(req)
	}

	return errorx.New(errorx.NotImplemented, "Unsupported method %s", method)
}
