package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/transport/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type window struct {
	start time.Time
	count int
}

// NewFixedWindowPerIP admits at most permits requests per client IP in each
// window. Windows of idle clients fall out of the cache when they end.
func NewFixedWindowPerIP(permits int, size time.Duration, cacheSize int) gin.HandlerFunc {
	windows := expirable.NewLRU[string, *window](cacheSize, nil, size)
	var mu sync.Mutex

	return func(c *gin.Context) {
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			host = c.Request.RemoteAddr
		}

		now := time.Now()
		mu.Lock()
		w, ok := windows.Get(host)
		if !ok || now.Sub(w.start) >= size {
			w = &window{start: now}
			windows.Add(host, w)
		}
		w.count++
		allowed := w.count <= permits
		retry := size - now.Sub(w.start)
		mu.Unlock()

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ResponseDTO{
				Status:  "Error",
				Message: "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
