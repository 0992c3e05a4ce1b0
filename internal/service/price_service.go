package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Drazod/LMS-AI-BE/internal/infra/repository/db"
	"github.com/Drazod/LMS-AI-BE/internal/infra/repository/redis_repo"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrDiscountNotFound = errors.New("discount not found")
	ErrPriceMismatch    = errors.New("declared price does not match server computation")
)

// PriceQuote 是伺服器端計算的權威報價
type PriceQuote struct {
	TotalPrice    decimal.Decimal `json:"total_price"`
	DiscountPrice decimal.Decimal `json:"discount_price"`
	FinalPrice    decimal.Decimal `json:"final_price"`
}

type IPriceService interface {
	Quote(ctx context.Context, courseIDs []uint, discountID *uint) (*PriceQuote, error)
	VerifyDeclared(declared, computed *PriceQuote) error
}

type PriceService struct {
	store      db.Store
	priceCache redis_repo.ICoursePriceRepository
	logger     *zerolog.Logger
}

// priceCache 可為 nil，此時每次報價都直接查 DB
func NewPriceService(store db.Store, priceCache redis_repo.ICoursePriceRepository, logger *zerolog.Logger) *PriceService {
	return &PriceService{store: store, priceCache: priceCache, logger: logger}
}

/*
Quote 計算報價。

報價階段是嚴格的：任何一門課程不存在就整筆報價失敗，
跟 commit 階段對消失課程的寬鬆處理不同。
折扣為固定面額直接折抵，final 為負數時鉗制為零。
*/
func (p *PriceService) Quote(ctx context.Context, courseIDs []uint, discountID *uint) (*PriceQuote, error) {
	prices := make([]decimal.Decimal, len(courseIDs))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for i, courseID := range courseIDs {
		g.Go(func() error {
			price, err := p.getCoursePrice(gCtx, courseID)
			if err != nil {
				return err
			}
			mu.Lock()
			prices[i] = price
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totalPrice := decimal.NewFromInt(0)
	for _, price := range prices {
		totalPrice = totalPrice.Add(price)
	}

	discountPrice := decimal.NewFromInt(0)
	if discountID != nil {
		discount, err := p.store.GetDiscountByID(ctx, *discountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: discount %d", ErrDiscountNotFound, *discountID)
			}
			return nil, fmt.Errorf("get discount %d: %w", *discountID, err)
		}
		now := time.Now()
		if now.Before(discount.ValidFrom) || now.After(discount.ValidTo) {
			return nil, fmt.Errorf("%w: discount %d is outside its validity window", ErrDiscountNotFound, *discountID)
		}
		discountPrice = discount.Value
	}

	finalPrice := totalPrice.Sub(discountPrice)
	if finalPrice.IsNegative() {
		finalPrice = decimal.NewFromInt(0)
	}

	return &PriceQuote{
		TotalPrice:    totalPrice,
		DiscountPrice: discountPrice,
		FinalPrice:    finalPrice,
	}, nil
}

// VerifyDeclared 比對買家回傳的報價跟伺服器計算結果，三個欄位都要完全相等。
// 不相等代表 client 端竄改價格，必須擋下付款網址的產生。
func (p *PriceService) VerifyDeclared(declared, computed *PriceQuote) error {
	if declared == nil || computed == nil {
		return ErrPriceMismatch
	}
	if !declared.TotalPrice.Equal(computed.TotalPrice) ||
		!declared.DiscountPrice.Equal(computed.DiscountPrice) ||
		!declared.FinalPrice.Equal(computed.FinalPrice) {
		return ErrPriceMismatch
	}
	return nil
}

// 權威價格在 DB，redis 只是報價路徑的 read-through 快取，
// 快取故障一律靜默退回 DB
func (p *PriceService) getCoursePrice(ctx context.Context, courseID uint) (decimal.Decimal, error) {
	if p.priceCache != nil {
		price, err := p.priceCache.GetCoursePrice(ctx, courseID)
		if err == nil {
			return price, nil
		}
		if !errors.Is(err, redis_repo.ErrPriceNotCached) {
			p.logger.Warn().Err(err).Uint("course_id", courseID).Msg("course price cache read failed")
		}
	}

	course, err := p.store.GetCourseByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Decimal{}, fmt.Errorf("%w: course %d", ErrCourseNotFound, courseID)
		}
		return decimal.Decimal{}, fmt.Errorf("get course %d: %w", courseID, err)
	}

	if p.priceCache != nil {
		if err := p.priceCache.SetCoursePrice(ctx, courseID, course.Price); err != nil {
			p.logger.Warn().Err(err).Uint("course_id", courseID).Msg("course price cache write failed")
		}
	}
	return course.Price, nil
}

var _ IPriceService = (*PriceService)(nil)
