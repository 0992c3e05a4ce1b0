package model

import "time"

type Cart struct {
	CartID    uint       `gorm:"primaryKey"`
	StudentID uint       `gorm:"not null;uniqueIndex"` // 外鍵，關聯到 Student，一人一車
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	BaseModel
}

// 購買完成後會被整批移除，走硬刪除，不留軟刪除紀錄
type CartItem struct {
	CartID    uint      `gorm:"primaryKey"` // 外鍵，關聯到 Cart
	CourseID  uint      `gorm:"primaryKey"` // 外鍵，關聯到 Course
	CreatedAt time.Time `gorm:"not null;default:now()"`
}
