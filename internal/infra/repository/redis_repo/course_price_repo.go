package redis_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type CoursePriceRepoError error

var ErrPriceNotCached CoursePriceRepoError = errors.New("course price not cached")

// 報價階段的課程價格快取，短TTL，miss 或 redis 掛掉一律回 DB 查權威價格
const coursePriceTTL = 5 * time.Minute

// ICoursePriceRepository 定義 Redis 課程價格快取的介面
type ICoursePriceRepository interface {
	// GetCoursePrice 取得快取價格，未快取回傳 ErrPriceNotCached
	GetCoursePrice(ctx context.Context, courseID uint) (decimal.Decimal, error)

	// SetCoursePrice 寫入快取價格
	SetCoursePrice(ctx context.Context, courseID uint, price decimal.Decimal) error

	// DeleteCoursePrice 課程價格異動時讓快取失效
	DeleteCoursePrice(ctx context.Context, courseID uint) error
}

type CoursePriceRepo struct {
	priceCache *redis.Client
}

func NewCoursePriceRepo(priceCache *redis.Client) *CoursePriceRepo {
	return &CoursePriceRepo{priceCache: priceCache}
}

func generateCoursePriceKey(courseID uint) string {
	return fmt.Sprintf("course:%d:price", courseID)
}

func (s *CoursePriceRepo) GetCoursePrice(ctx context.Context, courseID uint) (decimal.Decimal, error) {
	redisKey := generateCoursePriceKey(courseID)
	raw, err := s.priceCache.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Decimal{}, ErrPriceNotCached
	}
	if err != nil {
		return decimal.Decimal{}, err
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		// 壞掉的快取值視同miss
		return decimal.Decimal{}, ErrPriceNotCached
	}
	return price, nil
}

func (s *CoursePriceRepo) SetCoursePrice(ctx context.Context, courseID uint, price decimal.Decimal) error {
	redisKey := generateCoursePriceKey(courseID)
	return s.priceCache.Set(ctx, redisKey, price.String(), coursePriceTTL).Err()
}

func (s *CoursePriceRepo) DeleteCoursePrice(ctx context.Context, courseID uint) error {
	redisKey := generateCoursePriceKey(courseID)
	return s.priceCache.Del(ctx, redisKey).Err()
}

var _ ICoursePriceRepository = (*CoursePriceRepo)(nil)
