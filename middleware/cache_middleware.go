package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"hash/fnv"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain/keys"
	"github.com/x-xyz/marketplace/service/cache"
	"github.com/x-xyz/marketplace/service/redis"
)

const (
	// local tier size in MB
	localCacheSize = 16
	localTTLLimit  = 10 * time.Second
)

// Response is a cached GET response
type Response struct {
	Value  []byte      `json:"value"`
	Header http.Header `json:"header"`
}

type bodyDumpResponseWriter struct {
	statusCode int
	io.Writer
	http.ResponseWriter
}

func (w *bodyDumpResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyDumpResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *bodyDumpResponseWriter) Flush() {
	w.ResponseWriter.(http.Flusher).Flush()
}

func (w *bodyDumpResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.(http.Hijacker).Hijack()
}

func sortURLParams(URL *url.URL) {
	params := URL.Query()
	for _, param := range params {
		sort.Slice(param, func(i, j int) bool {
			return param[i] < param[j]
		})
	}
	URL.RawQuery = params.Encode()
}

// generateKey hashes the lower-cased path and the sorted query so that
// Invalidate can rebuild the key of a path
func generateKey(path, rawQuery string) string {
	hash := fnv.New64a()
	hash.Write([]byte(strings.ToLower(path)))
	if rawQuery != "" {
		hash.Write([]byte("?" + rawQuery))
	}

	return keys.RedisKey(keys.PfxHttpCache, strconv.FormatUint(hash.Sum64(), 36))
}

// HttpCache caches successful GET responses in a local tier and, when
// redis is configured, a shared redis tier
type HttpCache struct {
	store cache.Store
	ttl   time.Duration
}

// NewHttpCache builds the cache tiers, r may be nil
func NewHttpCache(r redis.Service, ttl time.Duration) *HttpCache {
	tiers := []cache.Tier{
		{Store: cache.NewLocal(keys.PfxHttpCache, localCacheSize), MaxTTL: localTTLLimit},
	}
	if r != nil {
		tiers = append(tiers, cache.Tier{Store: cache.NewRedis(r)})
	}
	return &HttpCache{store: cache.NewTiered(tiers...), ttl: ttl}
}

// Invalidate drops the cached response of path requested without a query
func (h *HttpCache) Invalidate(c ctx.Ctx, path string) error {
	return h.store.Del(c, generateKey(path, ""))
}

func (h *HttpCache) CacheHttp() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Get("ctx").(ctx.Ctx)

			sortURLParams(c.Request().URL)
			key := generateKey(c.Request().URL.Path, c.Request().URL.RawQuery)

			response := Response{}
			val, _, err := h.store.Get(ctx, key)
			if err == nil {
				err = json.Unmarshal(val, &response)
			}
			if err == nil {
				// cache hit
				for k, v := range response.Header {
					c.Response().Header().Set(k, strings.Join(v, ","))
				}
				c.Response().WriteHeader(http.StatusOK)
				_, err := c.Response().Write(response.Value)
				return err
			} else if err != cache.ErrNotFound {
				ctx.WithFields(log.Fields{
					"err": err,
				}).Error("failed to read cached response")
			}

			// cache miss
			resBody := new(bytes.Buffer)
			mw := io.MultiWriter(c.Response().Writer, resBody)
			writer := &bodyDumpResponseWriter{Writer: mw, ResponseWriter: c.Response().Writer}
			c.Response().Writer = writer
			if err := next(c); err != nil {
				c.Error(err)
			}

			statusCode := writer.statusCode
			if statusCode < 400 {
				response := Response{
					Value:  resBody.Bytes(),
					Header: writer.Header(),
				}

				if val, err := json.Marshal(response); err != nil {
					ctx.WithField("err", err).Error("json.Marshal failed")
				} else if err := h.store.Set(ctx, key, val, h.ttl); err != nil {
					ctx.WithFields(log.Fields{
						"err": err,
					}).Error("failed to cache response")
				}
			}

			return nil
		}
	}
}
