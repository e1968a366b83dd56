package webhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"

	"commerce_notifier/internal/metrics"

	"github.com/gin-gonic/gin"
)

const (
	// SignatureHeader carries base64(HMAC-SHA256(body, secret)).
	SignatureHeader = "X-WC-Webhook-Signature"
	maxBodyBytes    = 1 << 20
	bodyKey         = "webhookBody"
)

// Sign returns the signature the storefront sends for body.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// SignatureMiddleware buffers the request body and, when secret is set,
// rejects requests whose signature header does not match it.
func SignatureMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
		if err != nil {
			metrics.RecordWebhookRequest(metrics.WebhookRejected)
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if secret != "" {
			given, err := base64.StdEncoding.DecodeString(c.GetHeader(SignatureHeader))
			expected, _ := base64.StdEncoding.DecodeString(Sign(body, secret))
			if err != nil || !hmac.Equal(given, expected) {
				metrics.RecordWebhookRequest(metrics.WebhookRejected)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
				return
			}
		}

		c.Set(bodyKey, body)
		c.Next()
	}
}
