package sharpd

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uber/sharpd/src/sharpd/entity"
	"github.com/uber/sharpd/src/sharpd/internal/hmacauth"
)

// sessionContext attaches the daemon session's UUID to the request context
// so repositories can resolve the session downstream.
func (h *handler) sessionContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), entity.SessionContextKey, h.sessionID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// hmacAuth verifies the request body signature and signs the response body.
// An unverified body is never handed to a route handler.
func (h *handler) hmacAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(c.Request.Body)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "reading request body"})
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		digest := c.GetHeader(hmacauth.HeaderName)
		if digest == "" || !hmacauth.Verify(body, digest, h.secret) {
			h.stats.Counter("auth_rejected").Inc(1)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "signature mismatch"})
			return
		}

		// Buffer the response so its signature can be set before the body
		// is flushed.
		writer := &signingWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		writer.Header().Set(hmacauth.HeaderName, hmacauth.Sign(writer.body.Bytes(), h.secret))
		writer.flush()
	}
}

// signingWriter defers body writes until the handler chain has finished, so
// a digest over the full body can be emitted as a header.
type signingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *signingWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *signingWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

func (w *signingWriter) flush() {
	w.ResponseWriter.Write(w.body.Bytes())
}
