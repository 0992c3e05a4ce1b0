package model

import "time"

// 同一個學生對同一門課程永遠只會有一筆 Enrollment，
// 由複合唯一索引保證，不能只靠應用層檢查
type Enrollment struct {
	EnrollmentID           uint       `gorm:"primaryKey"`
	StudentID              uint       `gorm:"not null;uniqueIndex:idx_enrollment_student_course"`
	CourseID               uint       `gorm:"not null;uniqueIndex:idx_enrollment_student_course"`
	EnrollmentDate         time.Time  `gorm:"not null"`
	IsComplete             bool       `gorm:"not null;default:false"`
	CurrentSectionPosition int        `gorm:"not null;default:1"`
	CompletionDate         *time.Time `gorm:"null"`
	BaseModel
}
