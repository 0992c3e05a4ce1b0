package handler

import (
	"errors"
	"net/http"

	"github.com/Drazod/LMS-AI-BE/internal/infra/repository/db"
	"github.com/Drazod/LMS-AI-BE/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PaymentHandler 是核心 pipeline 的薄 HTTP 轉接層，
// 端點只做輸入綁定與錯誤碼對應，不帶業務邏輯。
// 使用者身分驗證（JWT 簽發）是外部協作者的事，這裡直接收 student_id。
type PaymentHandler struct {
	priceSvc    service.IPriceService
	paymentSvc  service.IPaymentService
	callbackSvc service.ICallbackService
	store       db.Store
}

func NewPaymentHandler(priceSvc service.IPriceService, paymentSvc service.IPaymentService, callbackSvc service.ICallbackService, store db.Store) *PaymentHandler {
	return &PaymentHandler{
		priceSvc:    priceSvc,
		paymentSvc:  paymentSvc,
		callbackSvc: callbackSvc,
		store:       store,
	}
}

type quoteReq struct {
	CourseIDs  []uint `json:"course_ids" binding:"required"`
	DiscountID *uint  `json:"discount_id"`
}

func (h *PaymentHandler) Quote(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	quote, err := h.priceSvc.Quote(c.Request.Context(), req.CourseIDs, req.DiscountID)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}

type paymentURLReq struct {
	StudentID     uint            `json:"student_id" binding:"required"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	DiscountPrice decimal.Decimal `json:"discount_price"`
	FinalPrice    decimal.Decimal `json:"final_price"`
	DiscountID    *uint           `json:"discount_id"`
}

func (h *PaymentHandler) CreatePaymentURL(c *gin.Context) {
	var req paymentURLReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	declared := &service.PriceQuote{
		TotalPrice:    req.TotalPrice,
		DiscountPrice: req.DiscountPrice,
		FinalPrice:    req.FinalPrice,
	}
	url, err := h.paymentSvc.CreatePaymentURL(c.Request.Context(), req.StudentID, declared, req.DiscountID, c.ClientIP())
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_url": url})
}

// VnpayReturn 承接閘道 callback。
// Rejected 是終態，回 4xx 讓閘道不要再送；
// RetryableFailure 已 rollback，回 5xx 讓閘道重送。
func (h *PaymentHandler) VnpayReturn(c *gin.Context) {
	rawParams := make(map[string]string)
	for k, vs := range c.Request.URL.Query() {
		if len(vs) > 0 {
			rawParams[k] = vs[0]
		}
	}

	result := h.callbackSvc.HandleCallback(c.Request.Context(), rawParams)
	switch result.Outcome {
	case service.OutcomeSuccess:
		c.JSON(http.StatusOK, gin.H{"outcome": result.Outcome.String(), "order_id": result.Purchase.OrderID})
	case service.OutcomeRejected:
		c.JSON(http.StatusBadRequest, gin.H{"outcome": result.Outcome.String(), "reason": result.Reason})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"outcome": result.Outcome.String(), "reason": result.Reason})
	}
}

type addCartItemReq struct {
	StudentID uint `json:"student_id" binding:"required"`
	CourseID  uint `json:"course_id" binding:"required"`
}

// AddCartItem 加入購物車，購物車不存在時延遲建立
func (h *PaymentHandler) AddCartItem(c *gin.Context) {
	var req addCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	cart, err := h.store.GetOrCreateCart(c.Request.Context(), req.StudentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.AddCartItem(c.Request.Context(), cart.CartID, req.CourseID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cart_id": cart.CartID})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrDiscountNotFound),
		errors.Is(err, service.ErrCartNotExist):
		return http.StatusNotFound
	case errors.Is(err, service.ErrPriceMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
