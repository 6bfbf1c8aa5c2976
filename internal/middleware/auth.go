package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/questx-lab/boxmaster/internal/model"
	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/jwt"
	"github.com/questx-lab/boxmaster/pkg/router"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
)

type AuthVerifier struct {
	engine   *jwt.Engine[model.AccessToken]
	optional bool
}

func NewAuthVerifier(engine *jwt.Engine[model.AccessToken]) *AuthVerifier {
	return &AuthVerifier{engine: engine}
}

// Optional lets requests without a token pass through anonymously. A token
// which is present must still be valid.
func (a *AuthVerifier) Optional() *AuthVerifier {
	return &AuthVerifier{engine: a.engine, optional: true}
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context, r *http.Request) (context.Context, error) {
		token := bearerToken(r)
		if token == "" {
			if a.optional {
				return ctx, nil
			}

			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		info, err := a.engine.Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, info.Address), nil
	}
}

func bearerToken(r *http.Request) string {
	auth, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || auth != "Bearer" {
		return ""
	}

	return token
}
