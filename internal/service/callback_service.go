package service

import (
	"context"
	"errors"
	"time"

	"github.com/Drazod/LMS-AI-BE/internal/infra/producer"
	"github.com/Drazod/LMS-AI-BE/internal/infra/repository/db"
	"github.com/Drazod/LMS-AI-BE/internal/ordercontext"
	"github.com/Drazod/LMS-AI-BE/internal/vnpay"
	"github.com/rs/zerolog"
)

var ErrSignatureInvalid = errors.New("callback signature invalid")

// CallbackOutcome 是一次 callback 處理的終態
type CallbackOutcome int

const (
	// OutcomeSuccess 購買已 commit，閘道重送同一筆是安全的 no-op
	OutcomeSuccess CallbackOutcome = iota
	// OutcomeRejected 終態拒絕，沒有任何資料庫寫入
	OutcomeRejected
	// OutcomeRetryableFailure 交易失敗已全數 rollback，閘道重送是安全的
	OutcomeRetryableFailure
)

func (o CallbackOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "SUCCESS"
	case OutcomeRejected:
		return "REJECTED"
	case OutcomeRetryableFailure:
		return "RETRYABLE_FAILURE"
	default:
		return "UNKNOWN"
	}
}

// callback 處理的狀態機：
// RECEIVED → SIGNATURE_VERIFIED → CONTEXT_DECODED → COMMITTED → DONE，
// REJECTED 只能從 commit 之前的狀態進入
type callbackState string

const (
	stateReceived          callbackState = "RECEIVED"
	stateSignatureVerified callbackState = "SIGNATURE_VERIFIED"
	stateContextDecoded    callbackState = "CONTEXT_DECODED"
	stateCommitted         callbackState = "COMMITTED"
	stateDone              callbackState = "DONE"
	stateRejected          callbackState = "REJECTED"
)

type CallbackResult struct {
	Outcome  CallbackOutcome
	Reason   string
	Purchase *PurchaseResult
}

type ICallbackService interface {
	HandleCallback(ctx context.Context, rawParams map[string]string) *CallbackResult
}

// CallbackService 把一次閘道 callback 編排成終態結果
type CallbackService struct {
	checkout   ICheckoutService
	store      db.Store
	eventProd  producer.IPurchaseEventProducer
	hashSecret string
	logger     *zerolog.Logger
}

// eventProd 可為 nil，此時不發佈購買完成事件
func NewCallbackService(checkout ICheckoutService, store db.Store, eventProd producer.IPurchaseEventProducer, hashSecret string, logger *zerolog.Logger) *CallbackService {
	return &CallbackService{
		checkout:   checkout,
		store:      store,
		eventProd:  eventProd,
		hashSecret: hashSecret,
		logger:     logger,
	}
}

/*
HandleCallback 處理一筆閘道 callback。

commit 之前的任何失敗都不會留下資料庫寫入；
commit 之後的失敗（折扣清理、事件發佈）只記 log，不影響購買成功的終態。
*/
func (s *CallbackService) HandleCallback(ctx context.Context, rawParams map[string]string) *CallbackResult {
	state := stateReceived

	if !vnpay.VerifyParams(rawParams, s.hashSecret) {
		return s.reject(state, ErrSignatureInvalid.Error())
	}
	state = stateSignatureVerified

	params, err := vnpay.ParseCallbackParams(rawParams)
	if err != nil {
		return s.reject(state, err.Error())
	}
	if !params.IsPaymentSuccess() {
		// 簽章沒問題但閘道回報扣款失敗，沒有東西好 commit
		return s.reject(state, "gateway reported charge failure: code "+params.ResponseCode)
	}

	oc, err := ordercontext.Decode(params.OrderInfo)
	if err != nil {
		return s.reject(state, err.Error())
	}
	state = stateContextDecoded

	purchase, err := s.checkout.CompletePurchase(ctx, oc.StudentID, oc.CourseIDs, params.AmountCharged(), params.TxnRef)
	if err != nil {
		if errors.Is(err, ErrCartNotExist) {
			// 買家不可能沒有過購物車就走到 callback，context 本身有問題
			return s.reject(state, err.Error())
		}
		s.logger.Error().Err(err).
			Str("state", string(state)).
			Str("txn_ref", params.TxnRef).
			Msg("purchase commit failed, rolled back, gateway may retry")
		return &CallbackResult{Outcome: OutcomeRetryableFailure, Reason: err.Error()}
	}
	state = stateCommitted

	// commit 之後全部都是 best-effort，失敗不會逆轉已成立的購買
	if oc.DiscountID != nil {
		if err := s.store.DeleteStudentDiscount(ctx, oc.StudentID, *oc.DiscountID); err != nil {
			s.logger.Warn().Err(err).
				Uint("student_id", oc.StudentID).
				Uint("discount_id", *oc.DiscountID).
				Msg("discount cleanup failed after committed purchase")
		}
	}

	s.publishPurchaseCompleted(ctx, params, oc, purchase)

	state = stateDone
	s.logger.Info().
		Str("state", string(state)).
		Str("txn_ref", params.TxnRef).
		Uint("order_id", purchase.OrderID).
		Msg("callback processed")
	return &CallbackResult{Outcome: OutcomeSuccess, Purchase: purchase}
}

func (s *CallbackService) reject(from callbackState, reason string) *CallbackResult {
	s.logger.Info().
		Str("from_state", string(from)).
		Str("state", string(stateRejected)).
		Str("reason", reason).
		Msg("callback rejected")
	return &CallbackResult{Outcome: OutcomeRejected, Reason: reason}
}

func (s *CallbackService) publishPurchaseCompleted(ctx context.Context, params *vnpay.CallbackParams, oc *ordercontext.OrderContext, purchase *PurchaseResult) {
	if s.eventProd == nil {
		return
	}

	enrolled := make([]uint, 0, len(purchase.Items))
	for _, item := range purchase.Items {
		if item.Status == ItemEnrolled {
			enrolled = append(enrolled, item.CourseID)
		}
	}

	event := producer.PurchaseCompletedEvent{
		OrderID:    purchase.OrderID,
		StudentID:  oc.StudentID,
		CourseIDs:  enrolled,
		TotalPrice: params.AmountCharged().String(),
		TxnRef:     params.TxnRef,
		OccurredAt: time.Now(),
	}
	if err := s.eventProd.PublishPurchaseCompleted(ctx, event); err != nil {
		s.logger.Warn().Err(err).
			Str("txn_ref", params.TxnRef).
			Msg("purchase completed event publish failed")
	}
}
