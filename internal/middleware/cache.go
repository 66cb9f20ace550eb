package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/config"
)

// cachedResponse is the stored form of a cacheable response. Body is
// base64-encoded by encoding/json, so headers and payload travel in one
// Redis value and a hit replays exactly what the origin produced.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// responseRecorder tees the response body into a buffer, up to limit
// bytes, while streaming it to the client. Oversized responses are still
// served but marked uncacheable.
type responseRecorder struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	overflow bool
	limit    int64
}

func (rr *responseRecorder) WriteHeader(code int) {
	rr.status = code
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	if !rr.overflow {
		if rr.limit > 0 && int64(rr.buf.Len()+len(b)) > rr.limit {
			rr.overflow = true
			rr.buf.Reset()
		} else {
			rr.buf.Write(b)
		}
	}
	return rr.ResponseWriter.Write(b)
}

// resourceGroup maps a registered route to its cache group, the first
// path segment: "/article/:id" and "/article/search" are both "article".
// Mutations invalidate whole groups, so a PUT on one article drops every
// cached article read rather than serving stale copies until TTL.
func resourceGroup(route string) string {
	route = strings.TrimPrefix(route, "/")
	if i := strings.IndexByte(route, '/'); i >= 0 {
		route = route[:i]
	}
	if route == "" {
		return "root"
	}
	return route
}

// cacheKeyFrom builds the Redis key for a request. The group stays in
// clear text so invalidation can target it; the variable tail (route and,
// per strategy, method/query) is hashed.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	route := c.Path()

	var tail string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		tail = route
	case "method_route":
		tail = r.Method + ":" + route
	case "method_route_query":
		tail = r.Method + ":" + route + "?" + r.URL.RawQuery
	default: // "route_query"
		tail = route + "?" + r.URL.RawQuery
	}
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%s:%x", cfg.Prefix, resourceGroup(route), sum[:])
}

// indexKey is the per-group set of live cache keys, kept so invalidation
// does not need a SCAN.
func indexKey(prefix, group string) string {
	return prefix + ":idx:" + group
}

// NewRedisCache caches successful public reads (article and category
// browsing are the hot paths) in Redis. Every stored key is also recorded
// in its group's index set so the mutation endpoints can invalidate it.
// A nil client or a disabled config degrades to a pass-through.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKeyFrom(cfg, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var stored cachedResponse
				if json.Unmarshal(bs, &stored) == nil && stored.Status != 0 {
					for k, vals := range stored.Header {
						if strings.EqualFold(k, "Content-Length") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(stored.Status)
					if len(stored.Body) > 0 {
						_, _ = c.Response().Write(stored.Body)
					}
					return nil
				}
			}

			rr := &responseRecorder{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = rr
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if rr.status == http.StatusOK && !rr.overflow {
				hdr := make(http.Header, len(c.Response().Header()))
				for k, vals := range c.Response().Header() {
					hdr[k] = append([]string(nil), vals...)
				}
				payload, err := json.Marshal(cachedResponse{
					Status: rr.status,
					Header: hdr,
					Body:   rr.buf.Bytes(),
				})
				if err == nil {
					// Detached context: the entry should land even when the
					// client hangs up right after the response.
					bg := context.Background()
					group := resourceGroup(c.Path())
					pipe := rdb.Pipeline()
					pipe.SetEx(bg, key, payload, ttl)
					pipe.SAdd(bg, indexKey(cfg.Prefix, group), key)
					pipe.Expire(bg, indexKey(cfg.Prefix, group), ttl)
					_, _ = pipe.Exec(bg)
				}
			}
			return nil
		}
	}
}

// InvalidateGroups drops every cached entry belonging to the named groups.
func InvalidateGroups(ctx context.Context, rdb *redis.Client, prefix string, groups ...string) {
	for _, g := range groups {
		idx := indexKey(prefix, g)
		keys, err := rdb.SMembers(ctx, idx).Result()
		if err != nil {
			continue
		}
		if len(keys) > 0 {
			_ = rdb.Del(ctx, keys...).Err()
		}
		_ = rdb.Del(ctx, idx).Err()
	}
}

// NewCacheInvalidator returns middleware for mutation routes: after a
// successful (2xx) response it invalidates the given cache groups. An
// article update invalidates "article"; a category or review mutation
// also invalidates "article" since article reads embed both.
func NewCacheInvalidator(cfg config.CacheConfig, rdb *redis.Client, groups ...string) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil || len(groups) == 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := next(c); err != nil {
				return err
			}
			if s := c.Response().Status; s >= 200 && s < 300 {
				InvalidateGroups(context.Background(), rdb, cfg.Prefix, groups...)
			}
			return nil
		}
	}
}
