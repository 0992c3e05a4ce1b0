package db

import (
	"context"

	"github.com/Drazod/LMS-AI-BE/internal/model"
)

type CourseRepo struct {
	db *DbDao
}

func NewCourseRepo(db *DbDao) *CourseRepo {
	return &CourseRepo{db: db}
}

// Create - 創建課程 db
func (s *CourseRepo) CreateCourse(ctx context.Context, course *model.Course) error {
	return s.db.WithContext(ctx).Create(course).Error
}

// Read - 根據ID查詢課程，查無資料回傳 gorm.ErrRecordNotFound
func (s *CourseRepo) GetCourseByID(ctx context.Context, courseID uint) (*model.Course, error) {
	var course model.Course
	err := s.db.WithContext(ctx).First(&course, "course_id = ?", courseID).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}
