package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/router"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context, r *http.Request, err error) {
		info := fmt.Sprintf("%s | %s", r.Method, r.URL.Path)
		if user := xcontext.RequestUserID(ctx); user != "" {
			info = fmt.Sprintf("%s | %s", info, user)
		}

		if err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				xcontext.Logger(ctx).Warnf("%s | %d", info, errx.Code)
			} else {
				xcontext.Logger(ctx).Errorf("%s | %d", info, -1)
			}
		} else {
			xcontext.Logger(ctx).Infof(info)
		}
	}
}
