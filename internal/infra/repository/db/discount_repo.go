package db

import (
	"context"

	"github.com/Drazod/LMS-AI-BE/internal/model"
)

type DiscountRepo struct {
	db *DbDao
}

func NewDiscountRepo(db *DbDao) *DiscountRepo {
	return &DiscountRepo{db: db}
}

// Read - 根據ID查詢折扣，查無資料回傳 gorm.ErrRecordNotFound
func (s *DiscountRepo) GetDiscountByID(ctx context.Context, discountID uint) (*model.Discount, error) {
	var discount model.Discount
	err := s.db.WithContext(ctx).First(&discount, "discount_id = ?", discountID).Error
	if err != nil {
		return nil, err
	}
	return &discount, nil
}

// Read - 查詢學生持有的折扣
func (s *DiscountRepo) GetStudentDiscount(ctx context.Context, studentID, discountID uint) (*model.StudentDiscount, error) {
	var sd model.StudentDiscount
	err := s.db.WithContext(ctx).
		First(&sd, "student_id = ? AND discount_id = ?", studentID, discountID).Error
	if err != nil {
		return nil, err
	}
	return &sd, nil
}

// Delete - 折扣使用後移除持有紀錄
func (s *DiscountRepo) DeleteStudentDiscount(ctx context.Context, studentID, discountID uint) error {
	return s.db.WithContext(ctx).
		Where("student_id = ? AND discount_id = ?", studentID, discountID).
		Delete(&model.StudentDiscount{}).Error
}
