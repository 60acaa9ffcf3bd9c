package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/questx-lab/harmony/internal/common"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/router"
	"github.com/questx-lab/harmony/pkg/xcontext"
)

func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		startTime := xcontext.StartTime(ctx)
		req := xcontext.HTTPRequest(ctx)

		status := http.StatusOK
		if err := xcontext.Error(ctx); err != nil {
			status = errorx.CodeOf(err).HTTPStatus()
		}

		// The route template keeps the label cardinality bounded.
		path := req.URL.Path
		if route := mux.CurrentRoute(req); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}

		labels := []string{req.Method, path, fmt.Sprint(status)}
		common.PromCounters[common.HTTPRequestTotal].WithLabelValues(labels...).Inc()
		common.PromHistograms[common.HTTPRequestDurationSeconds].
			WithLabelValues(labels...).Observe(time.Since(startTime).Seconds())
	}
}
