package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	logpkg "github.com/Miraines/MoonyAndStarry/catalog-service/internal/infra/log"
)

const paginationHeader = "X-Pagination"

func scrubHeaders(h http.Header) http.Header {
	clone := h.Clone()
	for k := range clone {
		lk := strings.ToLower(k)
		if strings.Contains(lk, "authorization") || strings.Contains(lk, "cookie") {
			clone[k] = []string{"[redacted]"}
		}
	}
	return clone
}

// RequestLogger logs every request under its route template. Tokens and
// cookies are redacted and the authenticated user is hashed.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqHeaders, _ := json.Marshal(scrubHeaders(c.Request.Header))
		log.Debug("↘︎ incoming request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("origin", c.GetHeader("Origin")),
			zap.ByteString("hdr", reqHeaders),
		)

		ts := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(ts)),
			zap.String("method", c.Request.Method),
			zap.String("route", routeOf(c)),
			zap.String("path", c.Request.URL.Path),
		}
		if claims, ok := ClaimsFromContext(c); ok {
			fields = append(fields, logpkg.Subject("user", claims.Subject))
		}
		if page := c.Writer.Header().Get(paginationHeader); page != "" {
			fields = append(fields, zap.String("page", page))
		}

		for _, e := range c.Errors {
			log.Error("handler error", append(fields, zap.Error(e))...)
		}

		msg, level := "↗︎ completed", zapcore.InfoLevel
		switch {
		case c.IsAborted():
			msg, level = "↗︎ aborted", zapcore.WarnLevel
		case status >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zapcore.WarnLevel
		}
		if ce := log.Check(level, msg); ce != nil {
			ce.Write(fields...)
		}
	}
}
