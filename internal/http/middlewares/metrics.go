package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkravets/userhub/internal/observability"
)

func Metrics(p *observability.Prom) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		method := ctx.Request.Method

		p.InFlight.WithLabelValues(method).Inc()
		start := time.Now()

		ctx.Next()

		p.InFlight.WithLabelValues(method).Dec()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		status := strconv.Itoa(ctx.Writer.Status())

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
	}
}
