package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Drazod/LMS-AI-BE/internal/infra/producer"
	"github.com/Drazod/LMS-AI-BE/internal/infra/repository/db"
	"github.com/Drazod/LMS-AI-BE/internal/infra/repository/redis_repo"
	"github.com/Drazod/LMS-AI-BE/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// fakeStore implements db.Store in memory for testing.
// ExecTx snapshots the state up front and restores it when fn fails,
// mirroring the all-or-nothing rollback of the real transaction.
type fakeStore struct {
	courses          map[uint]model.Course
	carts            map[uint]model.Cart // keyed by studentID
	cartItems        map[uint][]model.CartItem
	orders           []model.Order
	orderItems       []model.OrderItem
	enrollments      []model.Enrollment
	discounts        map[uint]model.Discount
	studentDiscounts map[[2]uint]struct{}

	nextOrderID      uint
	nextEnrollmentID uint
	nextCartID       uint

	failOn map[string]error // method name -> forced error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		courses:          make(map[uint]model.Course),
		carts:            make(map[uint]model.Cart),
		cartItems:        make(map[uint][]model.CartItem),
		discounts:        make(map[uint]model.Discount),
		studentDiscounts: make(map[[2]uint]struct{}),
		failOn:           make(map[string]error),
	}
}

func (f *fakeStore) forced(method string) error {
	return f.failOn[method]
}

func (f *fakeStore) addCourse(id uint, price int64) {
	f.courses[id] = model.Course{CourseID: id, Title: fmt.Sprintf("Course %d", id), Price: decimal.NewFromInt(price)}
}

func (f *fakeStore) addCart(studentID uint, courseIDs ...uint) {
	f.nextCartID++
	cart := model.Cart{CartID: f.nextCartID, StudentID: studentID}
	f.carts[studentID] = cart
	for _, cid := range courseIDs {
		f.cartItems[cart.CartID] = append(f.cartItems[cart.CartID], model.CartItem{CartID: cart.CartID, CourseID: cid})
	}
}

func (f *fakeStore) addDiscount(id uint, value int64, holders ...uint) {
	f.discounts[id] = model.Discount{
		DiscountID: id,
		Value:      decimal.NewFromInt(value),
		ValidFrom:  time.Now().Add(-time.Hour),
		ValidTo:    time.Now().Add(24 * time.Hour),
	}
	for _, sid := range holders {
		f.studentDiscounts[[2]uint{sid, id}] = struct{}{}
	}
}

func (f *fakeStore) enrollmentsFor(studentID uint) []model.Enrollment {
	var out []model.Enrollment
	for _, e := range f.enrollments {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out
}

// ICourseRepository

func (f *fakeStore) GetCourseByID(_ context.Context, courseID uint) (*model.Course, error) {
	if err := f.forced("GetCourseByID"); err != nil {
		return nil, err
	}
	course, ok := f.courses[courseID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &course, nil
}

func (f *fakeStore) CreateCourse(_ context.Context, course *model.Course) error {
	f.courses[course.CourseID] = *course
	return nil
}

// ICartRepository

func (f *fakeStore) GetCartByStudentID(_ context.Context, studentID uint) (*model.Cart, error) {
	if err := f.forced("GetCartByStudentID"); err != nil {
		return nil, err
	}
	cart, ok := f.carts[studentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &cart, nil
}

func (f *fakeStore) GetOrCreateCart(ctx context.Context, studentID uint) (*model.Cart, error) {
	if cart, err := f.GetCartByStudentID(ctx, studentID); err == nil {
		return cart, nil
	}
	f.nextCartID++
	cart := model.Cart{CartID: f.nextCartID, StudentID: studentID}
	f.carts[studentID] = cart
	return &cart, nil
}

func (f *fakeStore) GetCartItems(_ context.Context, cartID uint) ([]model.CartItem, error) {
	if err := f.forced("GetCartItems"); err != nil {
		return nil, err
	}
	return append([]model.CartItem(nil), f.cartItems[cartID]...), nil
}

func (f *fakeStore) AddCartItem(_ context.Context, cartID, courseID uint) error {
	for _, item := range f.cartItems[cartID] {
		if item.CourseID == courseID {
			return nil
		}
	}
	f.cartItems[cartID] = append(f.cartItems[cartID], model.CartItem{CartID: cartID, CourseID: courseID})
	return nil
}

func (f *fakeStore) RemoveCartItems(_ context.Context, cartID uint, courseIDs []uint) error {
	if err := f.forced("RemoveCartItems"); err != nil {
		return err
	}
	remove := make(map[uint]struct{}, len(courseIDs))
	for _, id := range courseIDs {
		remove[id] = struct{}{}
	}
	var kept []model.CartItem
	for _, item := range f.cartItems[cartID] {
		if _, ok := remove[item.CourseID]; !ok {
			kept = append(kept, item)
		}
	}
	f.cartItems[cartID] = kept
	return nil
}

// IOrderRepository

func (f *fakeStore) CreateOrder(_ context.Context, order *model.Order) error {
	if err := f.forced("CreateOrder"); err != nil {
		return err
	}
	f.nextOrderID++
	order.OrderID = f.nextOrderID
	f.orders = append(f.orders, *order)
	return nil
}

func (f *fakeStore) CreateOrderItem(_ context.Context, item *model.OrderItem) error {
	if err := f.forced("CreateOrderItem"); err != nil {
		return err
	}
	f.orderItems = append(f.orderItems, *item)
	return nil
}

func (f *fakeStore) GetOrdersByStudentID(_ context.Context, studentID uint) ([]model.Order, error) {
	var out []model.Order
	for _, o := range f.orders {
		if o.StudentID == studentID {
			out = append(out, o)
		}
	}
	return out, nil
}

// IEnrollmentRepository

func (f *fakeStore) GetEnrollment(_ context.Context, studentID, courseID uint) (*model.Enrollment, error) {
	if err := f.forced("GetEnrollment"); err != nil {
		return nil, err
	}
	for _, e := range f.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) CreateEnrollmentIfAbsent(_ context.Context, enrollment *model.Enrollment) (bool, error) {
	if err := f.forced("CreateEnrollmentIfAbsent"); err != nil {
		return false, err
	}
	for _, e := range f.enrollments {
		if e.StudentID == enrollment.StudentID && e.CourseID == enrollment.CourseID {
			return false, nil
		}
	}
	f.nextEnrollmentID++
	enrollment.EnrollmentID = f.nextEnrollmentID
	f.enrollments = append(f.enrollments, *enrollment)
	return true, nil
}

func (f *fakeStore) GetEnrollmentsByStudentID(_ context.Context, studentID uint) ([]model.Enrollment, error) {
	return f.enrollmentsFor(studentID), nil
}

// IDiscountRepository

func (f *fakeStore) GetDiscountByID(_ context.Context, discountID uint) (*model.Discount, error) {
	if err := f.forced("GetDiscountByID"); err != nil {
		return nil, err
	}
	d, ok := f.discounts[discountID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (f *fakeStore) GetStudentDiscount(_ context.Context, studentID, discountID uint) (*model.StudentDiscount, error) {
	if _, ok := f.studentDiscounts[[2]uint{studentID, discountID}]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.StudentDiscount{StudentID: studentID, DiscountID: discountID}, nil
}

func (f *fakeStore) DeleteStudentDiscount(_ context.Context, studentID, discountID uint) error {
	if err := f.forced("DeleteStudentDiscount"); err != nil {
		return err
	}
	delete(f.studentDiscounts, [2]uint{studentID, discountID})
	return nil
}

func (f *fakeStore) ExecTx(_ context.Context, fn func(db.Store) error) error {
	snapshot := f.clone()
	if err := fn(f); err != nil {
		f.restore(snapshot)
		return err
	}
	return nil
}

func (f *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for k, v := range f.courses {
		c.courses[k] = v
	}
	for k, v := range f.carts {
		c.carts[k] = v
	}
	for k, v := range f.cartItems {
		c.cartItems[k] = append([]model.CartItem(nil), v...)
	}
	c.orders = append([]model.Order(nil), f.orders...)
	c.orderItems = append([]model.OrderItem(nil), f.orderItems...)
	c.enrollments = append([]model.Enrollment(nil), f.enrollments...)
	for k, v := range f.discounts {
		c.discounts[k] = v
	}
	for k := range f.studentDiscounts {
		c.studentDiscounts[k] = struct{}{}
	}
	c.nextOrderID = f.nextOrderID
	c.nextEnrollmentID = f.nextEnrollmentID
	c.nextCartID = f.nextCartID
	return c
}

func (f *fakeStore) restore(s *fakeStore) {
	f.courses = s.courses
	f.carts = s.carts
	f.cartItems = s.cartItems
	f.orders = s.orders
	f.orderItems = s.orderItems
	f.enrollments = s.enrollments
	f.discounts = s.discounts
	f.studentDiscounts = s.studentDiscounts
	f.nextOrderID = s.nextOrderID
	f.nextEnrollmentID = s.nextEnrollmentID
	f.nextCartID = s.nextCartID
}

var _ db.Store = (*fakeStore)(nil)

// fakePriceCache implements redis_repo.ICoursePriceRepository in memory
type fakePriceCache struct {
	prices map[uint]decimal.Decimal
	gets   int
	sets   int
}

func newFakePriceCache() *fakePriceCache {
	return &fakePriceCache{prices: make(map[uint]decimal.Decimal)}
}

func (f *fakePriceCache) GetCoursePrice(_ context.Context, courseID uint) (decimal.Decimal, error) {
	f.gets++
	price, ok := f.prices[courseID]
	if !ok {
		return decimal.Decimal{}, redis_repo.ErrPriceNotCached
	}
	return price, nil
}

func (f *fakePriceCache) SetCoursePrice(_ context.Context, courseID uint, price decimal.Decimal) error {
	f.sets++
	f.prices[courseID] = price
	return nil
}

func (f *fakePriceCache) DeleteCoursePrice(_ context.Context, courseID uint) error {
	delete(f.prices, courseID)
	return nil
}

// fakeProducer captures published events
type fakeProducer struct {
	events []producer.PurchaseCompletedEvent
	err    error
}

func (f *fakeProducer) PublishPurchaseCompleted(_ context.Context, event producer.PurchaseCompletedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}
