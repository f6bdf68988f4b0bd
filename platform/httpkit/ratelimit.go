package httpkit

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterSweepEvery = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps a token bucket per client IP. Buckets idle for longer
// than limiterIdleTTL are dropped on the next sweep.
type IPRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	rate      rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
	log       *logger.Logger
}

func NewIPRateLimiter(r rate.Limit, burst int, log *logger.Logger) *IPRateLimiter {
	return &IPRateLimiter{
		clients: make(map[string]*clientLimiter),
		rate:    r,
		burst:   burst,
		now:     time.Now,
		log:     log,
	}
}

// allow reports whether ip may proceed and, if not, how long until it may.
func (i *IPRateLimiter) allow(ip string) (bool, time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.lastSweep) >= limiterSweepEvery {
		for key, client := range i.clients {
			if now.Sub(client.lastSeen) > limiterIdleTTL {
				delete(i.clients, key)
			}
		}
		i.lastSweep = now
	}

	client, ok := i.clients[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(i.rate, i.burst)}
		i.clients[ip] = client
	}
	client.lastSeen = now

	reservation := client.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, 0
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (i *IPRateLimiter) size() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.clients)
}

// RateLimit answers 429 with a Retry-After header when the bucket is empty.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ok, wait := i.allow(ip)
		if !ok {
			if i.log != nil {
				i.log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			if wait > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// BatchRateLimiter guards endpoints that start a batch rescore.
type BatchRateLimiter struct {
	*IPRateLimiter
}

// NewBatchRateLimiter allows 2 batch requests per minute per IP.
func NewBatchRateLimiter(log *logger.Logger) *BatchRateLimiter {
	return &BatchRateLimiter{
		IPRateLimiter: NewIPRateLimiter(rate.Every(30*time.Second), 2, log),
	}
}
