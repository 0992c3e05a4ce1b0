package db

import (
	"context"

	"github.com/Drazod/LMS-AI-BE/internal/model"
)

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create - 創建訂單 db
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

// Create - 創建訂單項目，價格為購買當下的快照
func (s *OrderRepo) CreateOrderItem(ctx context.Context, item *model.OrderItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

// Read - 根據學生ID查詢訂單
func (s *OrderRepo) GetOrdersByStudentID(ctx context.Context, studentID uint) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems").
		Where("student_id = ?", studentID).
		Find(&orders).Error
	return orders, err
}
