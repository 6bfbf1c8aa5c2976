package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/router"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name string `json:"name" form:"name"`
}

type echoResponse struct {
	Greeting string `json:"greeting"`
}

type userKey struct{}

type envelope struct {
	Code  int64        `json:"code"`
	Error string       `json:"error"`
	Data  echoResponse `json:"data"`
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	switch req.Name {
	case "":
		return nil, errorx.New(errorx.BadRequest, "Empty name")
	case "panic":
		return nil, errors.New("raw error")
	}

	greeting := "hello " + req.Name
	if user, ok := ctx.Value(userKey{}).(string); ok {
		greeting += " from " + user
	}

	return &echoResponse{Greeting: greeting}, nil
}

func setupRouter() (*router.Router, *[]error) {
	gin.SetMode(gin.TestMode)
	r := router.New(context.Background())

	closed := []error{}
	r.AddCloser(func(ctx context.Context, req *http.Request, err error) {
		closed = append(closed, err)
	})

	router.GET(r, "/echo", echo)
	router.POST(r, "/echo", echo)

	authRouter := r.Branch()
	authRouter.Before(func(ctx context.Context, req *http.Request) (context.Context, error) {
		user := req.Header.Get("X-User")
		if user == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Unauthenticated")
		}

		return context.WithValue(ctx, userKey{}, user), nil
	})
	router.GET(authRouter, "/authEcho", echo)

	return r, &closed
}

func serve(t *testing.T, r *router.Router, req *http.Request) envelope {
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name     string
		req      func() *http.Request
		wantCode int64
		wantData string
		wantErr  string
	}{
		{
			name:     "get binds query",
			req:      func() *http.Request { return httptest.NewRequest(http.MethodGet, "/echo?name=box", nil) },
			wantData: "hello box",
		},
		{
			name: "post binds json",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":"box"}`))
			},
			wantData: "hello box",
		},
		{
			name: "invalid json",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":`))
			},
			wantCode: int64(errorx.BadRequest),
		},
		{
			name:     "domain error",
			req:      func() *http.Request { return httptest.NewRequest(http.MethodGet, "/echo", nil) },
			wantCode: int64(errorx.BadRequest),
			wantErr:  "Empty name",
		},
		{
			name:     "unknown error is hidden",
			req:      func() *http.Request { return httptest.NewRequest(http.MethodGet, "/echo?name=panic", nil) },
			wantCode: int64(errorx.Unknown.Code),
			wantErr:  errorx.Unknown.Message,
		},
		{
			name:     "middleware rejects",
			req:      func() *http.Request { return httptest.NewRequest(http.MethodGet, "/authEcho?name=box", nil) },
			wantCode: int64(errorx.Unauthenticated),
			wantErr:  "Unauthenticated",
		},
		{
			name: "middleware passes values",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/authEcho?name=box", nil)
				req.Header.Set("X-User", "alice")
				return req
			},
			wantData: "hello box from alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, closed := setupRouter()
			resp := serve(t, r, tt.req())

			require.Equal(t, tt.wantCode, resp.Code)
			require.Equal(t, tt.wantData, resp.Data.Greeting)
			if tt.wantErr != "" {
				require.Equal(t, tt.wantErr, resp.Error)
			}

			require.Len(t, *closed, 1)
			require.Equal(t, tt.wantCode == 0, (*closed)[0] == nil)
		})
	}
}
