package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 折扣金額採固定面額直接折抵
type Discount struct {
	DiscountID uint            `gorm:"primaryKey"`
	Value      decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	ValidFrom  time.Time       `gorm:"not null"`
	ValidTo    time.Time       `gorm:"not null"`
	BaseModel
}

// 學生持有的折扣，使用後刪除
type StudentDiscount struct {
	StudentID  uint      `gorm:"primaryKey"` // 外鍵，關聯到 Student
	DiscountID uint      `gorm:"primaryKey"` // 外鍵，關聯到 Discount
	CreatedAt  time.Time `gorm:"not null;default:now()"`
}
