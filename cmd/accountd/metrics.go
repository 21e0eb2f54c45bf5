package main

import (
	"cmp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "accountd_http_requests_total",
		Help: "HTTP requests served, by method, route, and status code.",
	},
	[]string{"method", "route", "status"},
)

func countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		requestsTotal.
			WithLabelValues(
				c.Request.Method,
				cmp.Or(c.FullPath(), "unmatched"),
				strconv.Itoa(c.Writer.Status()),
			).
			Inc()
	}
}
