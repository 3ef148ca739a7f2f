package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/fadhilmh/donasiku/internal/payment"
)

func RelayMiddleware(relay *payment.Relay) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("payment_relay", relay)
		c.Next()
	}
}

func GetRelay(c *gin.Context) *payment.Relay {
	relay, exists := c.Get("payment_relay")
	if !exists {
		return nil
	}
	return relay.(*payment.Relay)
}
