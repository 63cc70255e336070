package pos

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientStock is returned when a requested quantity exceeds known availability
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrEmptyCart is returned when checkout is attempted with no lines
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSaleRecordingFailed matches every *SaleRecordingError
	ErrSaleRecordingFailed = errors.New("sale recording failed")
	// ErrInvalidQuantity is returned when a line would be added with quantity below one
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// InsufficientStockError carries the details of a rejected cart mutation
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Name, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// SaleRecordingError wraps the persistence failure of a checkout
type SaleRecordingError struct {
	Cause error
}

func (e *SaleRecordingError) Error() string {
	return fmt.Sprintf("%v: %v", ErrSaleRecordingFailed, e.Cause)
}

func (e *SaleRecordingError) Unwrap() error {
	return e.Cause
}

func (e *SaleRecordingError) Is(target error) bool {
	return target == ErrSaleRecordingFailed
}
