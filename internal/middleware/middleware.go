// Package middleware carries the request plumbing for the loopback callback
// server. The server exists for a single redirect delivery, so the plumbing
// is about making that one request traceable when a sign-in goes wrong.
package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Trace tags the delivery with an X-Request-ID and logs its outcome. Query
// strings never reach the log: callback URLs carry tokens.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		log.Printf("callback %s: %s %s -> %d (%s) in %s",
			id,
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			outcome(c.Writer.Status()),
			time.Since(start),
		)
	}
}

// outcome names what happened to the delivery. The redirect endpoint can be
// replayed by a reload or prefetch, so the log line is often the only record
// of which delivery actually ran the handler.
func outcome(status int) string {
	switch {
	case status == http.StatusNotFound:
		return "unknown path"
	case status >= 500:
		return "handler failed"
	case status >= 400:
		return "rejected"
	}
	return "delivered"
}

// Recovery recovers from panics and returns a 500.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
