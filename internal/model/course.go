package model

import (
	"github.com/shopspring/decimal"
)

type Course struct {
	CourseID    uint            `gorm:"primaryKey"`
	Title       string          `gorm:"not null;type:varchar(255)"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	Description string          `gorm:"type:text"`
	OrderItems  []OrderItem     `gorm:"foreignKey:CourseID"` // 一對多
	BaseModel
}

type Student struct {
	BaseModel
	StudentID    uint         `gorm:"primaryKey"`
	StudentName  string       `gorm:"not null;type:varchar(100)"`
	StudentEmail string       `gorm:"unique;not null;type:varchar(100)"`
	Orders       []Order      `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Enrollments  []Enrollment `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}
