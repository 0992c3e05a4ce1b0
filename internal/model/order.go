package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	OrderID     uint            `gorm:"primaryKey"`
	StudentID   uint            `gorm:"not null;index"` // 外鍵，關聯到 Student
	OrderItems  []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"` // 一對多，級聯刪除
	TotalPrice  decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	PaymentDate time.Time       `gorm:"not null"`
	// 閘道交易編號，同一筆 callback 重送時可供離線對帳使用
	GatewayTxnRef string `gorm:"type:varchar(64);index"`
	BaseModel
}

// 購買當下的價格快照
type OrderItem struct {
	OrderID  uint            `gorm:"primaryKey"` // 外鍵，關聯到 Order
	CourseID uint            `gorm:"primaryKey"` // 外鍵，關聯到 Course
	Price    decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	BaseModel
}
