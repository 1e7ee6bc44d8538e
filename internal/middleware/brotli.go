package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// compressibleTypes lists the response types worth compressing. The form page
// and the API are small text payloads; metrics and streams are left alone.
var compressibleTypes = []string{"text/html", "text/css", "application/javascript", "application/json", "text/javascript"}

// brotliWriter holds the body until it knows the response is large and
// compressible enough.
type brotliWriter struct {
	gin.ResponseWriter
	quality   int
	minLength int
	buf       []byte
}

func (bw *brotliWriter) Write(data []byte) (int, error) {
	bw.buf = append(bw.buf, data...)
	return len(data), nil
}

func (bw *brotliWriter) WriteString(s string) (int, error) {
	return bw.Write([]byte(s))
}

func (bw *brotliWriter) finish() error {
	w := bw.ResponseWriter
	if len(bw.buf) < bw.minLength || !compressible(w.Header().Get("Content-Type")) {
		_, err := w.Write(bw.buf)
		return err
	}

	w.Header().Set("Content-Encoding", "br")
	w.Header().Del("Content-Length")
	enc := brotli.NewWriterLevel(w, bw.quality)
	if _, err := enc.Write(bw.buf); err != nil {
		return err
	}
	return enc.Close()
}

// Brotli compresses text responses of at least minLength bytes for clients
// that accept "br".
func Brotli(quality, minLength int) gin.HandlerFunc {
	if quality < 0 || quality > 11 {
		quality = brotli.DefaultCompression
	}
	return func(c *gin.Context) {
		if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") || !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")
		bw := &brotliWriter{ResponseWriter: c.Writer, quality: quality, minLength: minLength}
		c.Writer = bw
		defer func() {
			c.Writer = bw.ResponseWriter
			if err := bw.finish(); err != nil {
				_ = c.Error(err)
			}
		}()
		c.Next()
	}
}

func compressible(contentType string) bool {
	for _, t := range compressibleTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		if strings.TrimSpace(strings.ToLower(strings.SplitN(enc, ";", 2)[0])) == "br" {
			return true
		}
	}
	return false
}
