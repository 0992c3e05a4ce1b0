package router

import (
	"net/http"

	"github.com/Drazod/LMS-AI-BE/internal/api/handler"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func SetupRouter(paymentHandler *handler.PaymentHandler, logger *zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "up"})
	})

	v1 := r.Group("/api/v1")
	{
		cart := v1.Group("/cart")
		cart.POST("/items", paymentHandler.AddCartItem)

		checkout := v1.Group("/checkout")
		checkout.POST("/quote", paymentHandler.Quote)
		checkout.POST("/payment-url", paymentHandler.CreatePaymentURL)

		payment := v1.Group("/payment")
		payment.GET("/vnpay/return", paymentHandler.VnpayReturn)
	}
	return r
}

// 記錄request 請求
func requestLogger(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("request")
	}
}
