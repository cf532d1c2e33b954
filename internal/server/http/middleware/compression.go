package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBody caps decompressed request bodies.
const DefaultMaxBody int64 = 1 << 20

// DecompressRequest transparently handles gzip encoded requests. Bodies
// inflating past maxBody fail to read.
func DecompressRequest(maxBody int64) gin.HandlerFunc {
	if maxBody <= 0 {
		maxBody = DefaultMaxBody
	}
	return func(c *gin.Context) {
		encoding := strings.ToLower(c.GetHeader("Content-Encoding"))
		if !strings.Contains(encoding, "gzip") {
			c.Next()
			return
		}

		originalBody := c.Request.Body
		reader, err := gzip.NewReader(originalBody)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "malformed gzip body"})
			return
		}
		defer reader.Close()
		defer originalBody.Close()

		c.Request.Body = http.MaxBytesReader(c.Writer, reader, maxBody)
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}
