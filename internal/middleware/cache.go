package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey  = "responseMeta"
	responseStartKey = "responseStart"
	cacheHitKey      = "cacheHit"
)

// WithResponseMeta seeds a metadata map on the request context. Handlers add
// their own entries (cache hits, counts) and pass the map to response.JSON
// via ExtractMeta, which stamps the elapsed handling time on the way out.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseStartKey, time.Now())
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Next()
	}
}

// SetCacheHit records whether the response payload was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	ensureMeta(c)[cacheHitKey] = hit
}

// ExtractMeta returns the metadata map stored on the context, nil when the
// middleware is not installed. The elapsed handling time is added once.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	meta := storedMeta(c)
	if meta == nil {
		return nil
	}
	if _, exists := meta["processingTimeMs"]; !exists {
		if start, ok := c.Get(responseStartKey); ok {
			if typed, ok := start.(time.Time); ok {
				meta["processingTimeMs"] = time.Since(typed).Milliseconds()
			}
		}
	}
	return meta
}

func storedMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	return nil
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if meta := storedMeta(c); meta != nil {
		return meta
	}
	meta := make(map[string]interface{})
	if c != nil {
		c.Set(responseMetaKey, meta)
	}
	return meta
}
