package db

import (
	"context"

	"github.com/Drazod/LMS-AI-BE/internal/model"
	"gorm.io/gorm/clause"
)

type EnrollmentRepo struct {
	db *DbDao
}

func NewEnrollmentRepo(db *DbDao) *EnrollmentRepo {
	return &EnrollmentRepo{db: db}
}

// Read - 查詢單筆選課紀錄，查無資料回傳 gorm.ErrRecordNotFound
func (s *EnrollmentRepo) GetEnrollment(ctx context.Context, studentID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := s.db.WithContext(ctx).
		First(&enrollment, "student_id = ? AND course_id = ?", studentID, courseID).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// CreateEnrollmentIfAbsent 寫入選課紀錄。
// (student_id, course_id) 已存在時靠 ON CONFLICT DO NOTHING 視為已選課，
// 回傳 false 且不會讓整筆交易進入 aborted 狀態。
// 唯一索引才是併發重送下真正的防線，事前的存在性檢查只是省下一次寫入。
func (s *EnrollmentRepo) CreateEnrollmentIfAbsent(ctx context.Context, enrollment *model.Enrollment) (bool, error) {
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(enrollment)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Read - 根據學生ID查詢全部選課紀錄
func (s *EnrollmentRepo) GetEnrollmentsByStudentID(ctx context.Context, studentID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := s.db.WithContext(ctx).Where("student_id = ?", studentID).Find(&enrollments).Error
	return enrollments, err
}
