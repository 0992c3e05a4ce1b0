package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Drazod/LMS-AI-BE/internal/infra/repository/db"
	"github.com/Drazod/LMS-AI-BE/internal/model"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrCartNotExist = errors.New("cart is not exist")

// ItemStatus 是 commit 迴圈內單一課程的處理結果。
// 預期中的狀況（已選課、課程消失）走 tagged result，不走 error，
// error 只保留給會讓整筆交易 rollback 的不可恢復狀況。
type ItemStatus int

const (
	ItemEnrolled ItemStatus = iota
	ItemAlreadyEnrolled
	ItemCourseMissing
)

func (s ItemStatus) String() string {
	switch s {
	case ItemEnrolled:
		return "ENROLLED"
	case ItemAlreadyEnrolled:
		return "ALREADY_ENROLLED"
	case ItemCourseMissing:
		return "COURSE_MISSING"
	default:
		return "UNKNOWN"
	}
}

type ItemOutcome struct {
	CourseID uint
	Status   ItemStatus
}

type PurchaseResult struct {
	OrderID uint
	Items   []ItemOutcome
}

type ICheckoutService interface {
	CompletePurchase(ctx context.Context, studentID uint, purchasedCourseIDs []uint, amountCharged decimal.Decimal, gatewayTxnRef string) (*PurchaseResult, error)
}

// CheckoutService 負責把購物車原子性地轉成訂單與選課紀錄
type CheckoutService struct {
	store  db.Store
	logger *zerolog.Logger
}

func NewCheckoutService(store db.Store, logger *zerolog.Logger) *CheckoutService {
	return &CheckoutService{store: store, logger: logger}
}

/*
CompletePurchase 在單一交易內完成一筆已付款的購買：

 1. 解析買家購物車，沒有購物車代表 context 有問題，整筆拒絕
 2. 依購物車順序走訪命中購買清單的項目
 3. 已選課的項目視為成功的 no-op（閘道重送防護）
 4. 課程在報價到付款之間消失時，跳過該項目並記 warning，不中斷整筆交易
 5. 其餘項目寫入價格快照與選課紀錄，選課靠唯一索引擋併發重送
 6. 整批移除已處理的購物車項目

交易內任何未預期的錯誤會 rollback 全部寫入，閘道重送是安全的。
折扣持有紀錄的清除不在交易邊界內，由 caller 在 commit 後 best-effort 處理。
*/
func (s *CheckoutService) CompletePurchase(ctx context.Context, studentID uint, purchasedCourseIDs []uint, amountCharged decimal.Decimal, gatewayTxnRef string) (*PurchaseResult, error) {
	purchased := make(map[uint]struct{}, len(purchasedCourseIDs))
	for _, id := range purchasedCourseIDs {
		purchased[id] = struct{}{}
	}

	var result PurchaseResult
	err := s.store.ExecTx(ctx, func(tx db.Store) error {
		cart, err := tx.GetCartByStudentID(ctx, studentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: student %d", ErrCartNotExist, studentID)
			}
			return fmt.Errorf("get cart: %w", err)
		}

		cartItems, err := tx.GetCartItems(ctx, cart.CartID)
		if err != nil {
			return fmt.Errorf("get cart items: %w", err)
		}

		order := &model.Order{
			StudentID:     studentID,
			PaymentDate:   time.Now(),
			TotalPrice:    amountCharged,
			GatewayTxnRef: gatewayTxnRef,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		result.OrderID = order.OrderID
		result.Items = result.Items[:0] // 交易重試時清掉前一輪的結果

		var removal []uint
		for _, item := range cartItems {
			if _, ok := purchased[item.CourseID]; !ok {
				continue
			}

			outcome, err := s.commitItem(ctx, tx, order, studentID, item.CourseID)
			if err != nil {
				return err
			}
			result.Items = append(result.Items, outcome)

			// 課程消失的項目沒有成交，留在購物車裡
			if outcome.Status != ItemCourseMissing {
				removal = append(removal, item.CourseID)
			}
		}

		if err := tx.RemoveCartItems(ctx, cart.CartID, removal); err != nil {
			return fmt.Errorf("remove cart items: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCartNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("complete purchase for student %d: %w", studentID, err)
	}
	return &result, nil
}

func (s *CheckoutService) commitItem(ctx context.Context, tx db.Store, order *model.Order, studentID, courseID uint) (ItemOutcome, error) {
	outcome := ItemOutcome{CourseID: courseID}

	_, err := tx.GetEnrollment(ctx, studentID, courseID)
	if err == nil {
		outcome.Status = ItemAlreadyEnrolled
		return outcome, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return outcome, fmt.Errorf("get enrollment: %w", err)
	}

	course, err := tx.GetCourseByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().
				Uint("student_id", studentID).
				Uint("course_id", courseID).
				Msg("course disappeared between quote and commit, skipping item")
			outcome.Status = ItemCourseMissing
			return outcome, nil
		}
		return outcome, fmt.Errorf("get course %d: %w", courseID, err)
	}

	inserted, err := tx.CreateEnrollmentIfAbsent(ctx, &model.Enrollment{
		StudentID:              studentID,
		CourseID:               courseID,
		EnrollmentDate:         time.Now(),
		IsComplete:             false,
		CurrentSectionPosition: 1,
	})
	if err != nil {
		return outcome, fmt.Errorf("create enrollment: %w", err)
	}
	if !inserted {
		// 併發重送搶先寫入，同樣視為已選課
		outcome.Status = ItemAlreadyEnrolled
		return outcome, nil
	}

	if err := tx.CreateOrderItem(ctx, &model.OrderItem{
		OrderID:  order.OrderID,
		CourseID: courseID,
		Price:    course.Price,
	}); err != nil {
		return outcome, fmt.Errorf("create order item: %w", err)
	}

	outcome.Status = ItemEnrolled
	return outcome, nil
}

var _ ICheckoutService = (*CheckoutService)(nil)
