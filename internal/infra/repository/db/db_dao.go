package db

import (
	"context"
	"time"

	"github.com/Drazod/LMS-AI-BE/internal/model"
	"gorm.io/gorm"
)

// 交易逾時視同一般交易失敗，整筆 rollback，閘道重送是安全的
const txTimeout = 10 * time.Second

type DbDao struct {
	*gorm.DB
}

func NewDbDao(conn *gorm.DB) *DbDao {
	return &DbDao{
		DB: conn,
	}
}

// 初始化db schema
// 冪等性
func (d *DbDao) InitMigrate() error {
	return d.AutoMigrate(
		&model.Student{},
		&model.Course{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Enrollment{},
		&model.Discount{},
		&model.StudentDiscount{},
	)
}

// ICourseRepository Course 相關操作介面
type ICourseRepository interface {
	GetCourseByID(ctx context.Context, courseID uint) (*model.Course, error)
	CreateCourse(ctx context.Context, course *model.Course) error
}

// ICartRepository Cart 相關操作介面
type ICartRepository interface {
	GetCartByStudentID(ctx context.Context, studentID uint) (*model.Cart, error)
	GetOrCreateCart(ctx context.Context, studentID uint) (*model.Cart, error)
	GetCartItems(ctx context.Context, cartID uint) ([]model.CartItem, error)
	AddCartItem(ctx context.Context, cartID, courseID uint) error
	RemoveCartItems(ctx context.Context, cartID uint, courseIDs []uint) error
}

// IOrderRepository Order 相關操作介面
type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	CreateOrderItem(ctx context.Context, item *model.OrderItem) error
	GetOrdersByStudentID(ctx context.Context, studentID uint) ([]model.Order, error)
}

// IEnrollmentRepository Enrollment 相關操作介面
type IEnrollmentRepository interface {
	GetEnrollment(ctx context.Context, studentID, courseID uint) (*model.Enrollment, error)
	CreateEnrollmentIfAbsent(ctx context.Context, enrollment *model.Enrollment) (bool, error)
	GetEnrollmentsByStudentID(ctx context.Context, studentID uint) ([]model.Enrollment, error)
}

// IDiscountRepository Discount 相關操作介面
type IDiscountRepository interface {
	GetDiscountByID(ctx context.Context, discountID uint) (*model.Discount, error)
	GetStudentDiscount(ctx context.Context, studentID, discountID uint) (*model.StudentDiscount, error)
	DeleteStudentDiscount(ctx context.Context, studentID, discountID uint) error
}

// Store 統一的資料庫介面，ExecTx 內拿到的 Store 綁定同一筆交易
type Store interface {
	ICourseRepository
	ICartRepository
	IOrderRepository
	IEnrollmentRepository
	IDiscountRepository

	ExecTx(ctx context.Context, fn func(Store) error) error
}

// SQLStore 統一資料庫實現
type SQLStore struct {
	db *gorm.DB
	*CourseRepo
	*CartRepo
	*OrderRepo
	*EnrollmentRepo
	*DiscountRepo
}

func NewSQLStore(conn *gorm.DB) *SQLStore {
	dbDao := NewDbDao(conn)
	return &SQLStore{
		db:             conn,
		CourseRepo:     NewCourseRepo(dbDao),
		CartRepo:       NewCartRepo(dbDao),
		OrderRepo:      NewOrderRepo(dbDao),
		EnrollmentRepo: NewEnrollmentRepo(dbDao),
		DiscountRepo:   NewDiscountRepo(dbDao),
	}
}

func (s *SQLStore) InitMigrate() error {
	return NewDbDao(s.db).InitMigrate()
}

// ExecTx 在單一資料庫交易內執行 fn，fn 內任何錯誤會 rollback 全部寫入
func (s *SQLStore) ExecTx(ctx context.Context, fn func(Store) error) error {
	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	return s.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		return fn(NewSQLStore(tx))
	})
}

var _ Store = (*SQLStore)(nil)
