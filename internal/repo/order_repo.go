// Package repo implements the data persistence layer of the order ledger,
// backed by GORM. This file provides repository functions for the Order
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When an order is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nameforge/go-domains-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
//
// Alias of gorm.ErrRecordNotFound so callers can match with errors.Is.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateOrder inserts a terminal order row. The caller supplies every field
// except ID and timestamps; the generated id is filled into o.
func CreateOrder(ctx context.Context, db *gorm.DB, o *domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	return db.WithContext(ctx).Create(o).Error
}

// GetOrder fetches a single order by id, or ErrNotFound.
func GetOrder(ctx context.Context, db *gorm.DB, id string) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CountOrders returns the total number of ledger rows, optionally restricted
// to orders flagged for manual reconciliation.
func CountOrders(ctx context.Context, db *gorm.DB, reconcileOnly bool) (int64, error) {
	q := db.WithContext(ctx).Model(&domain.Order{})
	if reconcileOnly {
		q = q.Where("needs_reconciliation = ?", true)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// ListOrdersPage returns a page of ledger rows, newest first, optionally
// restricted to orders flagged for manual reconciliation.
func ListOrdersPage(ctx context.Context, db *gorm.DB, reconcileOnly bool, offset, limit int) ([]domain.Order, error) {
	q := db.WithContext(ctx).Model(&domain.Order{})
	if reconcileOnly {
		q = q.Where("needs_reconciliation = ?", true)
	}
	var out []domain.Order
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}
