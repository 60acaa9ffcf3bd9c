package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/router"
	"github.com/questx-lab/harmony/pkg/xcontext"
)

func Logger(env string) router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		info := fmt.Sprintf("%s | %s | %s", req.Method, req.URL.Path, time.Since(xcontext.StartTime(ctx)))
		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				xcontext.Logger(ctx).Warnf("%s | %d | %s", info, errx.Code, errx.Message)
			} else {
				xcontext.Logger(ctx).Errorf("%s | %v", info, err)
			}
		} else if env != "production" {
			xcontext.Logger(ctx).Infof(info)
		}
	}
}
