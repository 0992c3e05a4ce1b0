package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Drazod/LMS-AI-BE/internal/infra/repository/db"
	"github.com/Drazod/LMS-AI-BE/internal/ordercontext"
	"github.com/Drazod/LMS-AI-BE/internal/vnpay"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type IPaymentService interface {
	CreatePaymentURL(ctx context.Context, studentID uint, declared *PriceQuote, discountID *uint, clientIP string) (string, error)
}

// PaymentService 負責付款網址的簽發：
// 重算權威報價、比對買家回傳的報價、把 order context 塞進導轉網址
type PaymentService struct {
	store      db.Store
	priceSvc   IPriceService
	gatewayCfg vnpay.Config
	logger     *zerolog.Logger
}

func NewPaymentService(store db.Store, priceSvc IPriceService, gatewayCfg vnpay.Config, logger *zerolog.Logger) *PaymentService {
	return &PaymentService{
		store:      store,
		priceSvc:   priceSvc,
		gatewayCfg: gatewayCfg,
		logger:     logger,
	}
}

// CreatePaymentURL 簽發付款導轉網址。
// declared 是買家在報價階段拿到、請求付款時原樣帶回的報價，
// 三個欄位任何一個對不上伺服器重算結果就回 ErrPriceMismatch，不簽發網址。
func (s *PaymentService) CreatePaymentURL(ctx context.Context, studentID uint, declared *PriceQuote, discountID *uint, clientIP string) (string, error) {
	cart, err := s.store.GetCartByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: student %d", ErrCartNotExist, studentID)
		}
		return "", fmt.Errorf("get cart: %w", err)
	}

	items, err := s.store.GetCartItems(ctx, cart.CartID)
	if err != nil {
		return "", fmt.Errorf("get cart items: %w", err)
	}
	courseIDs := make([]uint, 0, len(items))
	for _, item := range items {
		courseIDs = append(courseIDs, item.CourseID)
	}

	computed, err := s.priceSvc.Quote(ctx, courseIDs, discountID)
	if err != nil {
		return "", err
	}
	if err := s.priceSvc.VerifyDeclared(declared, computed); err != nil {
		declaredFinal := "<nil>"
		if declared != nil {
			declaredFinal = declared.FinalPrice.String()
		}
		s.logger.Warn().
			Uint("student_id", studentID).
			Str("declared_final", declaredFinal).
			Str("computed_final", computed.FinalPrice.String()).
			Msg("declared price mismatch, payment url refused")
		return "", err
	}

	txnRef := uuid.NewString()
	token := ordercontext.Encode(studentID, courseIDs, discountID)
	url := vnpay.BuildPaymentURL(s.gatewayCfg, vnpay.PaymentRequest{
		TxnRef:     txnRef,
		Amount:     computed.FinalPrice,
		OrderInfo:  token,
		ClientIP:   clientIP,
		CreateTime: time.Now(),
	})

	s.logger.Info().
		Uint("student_id", studentID).
		Str("txn_ref", txnRef).
		Str("final_price", computed.FinalPrice.String()).
		Msg("payment url issued")
	return url, nil
}

var _ IPaymentService = (*PaymentService)(nil)
