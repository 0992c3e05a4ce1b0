package db

import (
	"context"
	"errors"

	"github.com/Drazod/LMS-AI-BE/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepo struct {
	db *DbDao
}

func NewCartRepo(db *DbDao) *CartRepo {
	return &CartRepo{db: db}
}

// Read - 根據學生ID查詢購物車，查無資料回傳 gorm.ErrRecordNotFound
func (s *CartRepo) GetCartByStudentID(ctx context.Context, studentID uint) (*model.Cart, error) {
	var cart model.Cart
	err := s.db.WithContext(ctx).First(&cart, "student_id = ?", studentID).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// 購物車採延遲建立，第一次加入商品時才會有購物車
func (s *CartRepo) GetOrCreateCart(ctx context.Context, studentID uint) (*model.Cart, error) {
	cart, err := s.GetCartByStudentID(ctx, studentID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = &model.Cart{StudentID: studentID}
	if err := s.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// Read - 查詢購物車項目，依加入順序排序
func (s *CartRepo) GetCartItems(ctx context.Context, cartID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := s.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC, course_id ASC").
		Find(&items).Error
	return items, err
}

// 重複加入同一門課程視為 no-op
func (s *CartRepo) AddCartItem(ctx context.Context, cartID, courseID uint) error {
	item := model.CartItem{CartID: cartID, CourseID: courseID}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&item).Error
}

// Delete - 整批移除購物車項目
func (s *CartRepo) RemoveCartItems(ctx context.Context, cartID uint, courseIDs []uint) error {
	if len(courseIDs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("cart_id = ? AND course_id IN ?", cartID, courseIDs).
		Delete(&model.CartItem{}).Error
}
