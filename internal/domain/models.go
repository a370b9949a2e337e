// Package domain defines the persistence models of the acquisition backend.
// These types are mapped with GORM and form the order ledger: the durable
// record of every checkout attempt and its terminal state, which is what an
// external reconciliation process acts on when money moved but the product
// was not delivered.
package domain

import (
	"time"
)

// Order state values. An order is written once, after the acquisition flow
// reaches a terminal state; there are no in-progress rows.
const (
	// OrderStateComplete: charge captured, domain registered, add-on (if
	// selected) provisioned.
	OrderStateComplete = "complete"
	// OrderStatePartial: domain secured but the optional email add-on was
	// refused. Success overall; the domain itself is owned.
	OrderStatePartial = "partial"
	// OrderStateFailed: the flow stopped before the domain was secured.
	OrderStateFailed = "failed"
)

// Owner-attachment strategies. The registration call threads either a
// customer id (current protocol) or a registrant id (original protocol) as
// the foreign key of the domain.
const (
	OwnerStrategyCustomer   = "customer"
	OwnerStrategyRegistrant = "registrant"
)

// Order is one domain-acquisition transaction: the charge, the owner record
// it produced, and how far provisioning got.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identity of the buyer session; indexed for retrieval.
//   - Domain: the domain name being acquired.
//   - AmountMinor / Currency: the captured charge in minor units (pence).
//   - PaymentIntentID: the payment provider's charge record, for refunds.
//   - OwnerStrategy / OwnerID / Username: which protocol variant attached
//     ownership, and the reseller-assigned identifiers.
//   - EmailPlan / EmailPlanID / EmailProvisioned: optional add-on outcome.
//   - State / FailureStage / FailureReason: terminal state of the flow.
//   - NeedsReconciliation: true when money was captured but the domain was
//     not delivered; the operator queue filters on this flag.
type Order struct {
	ID     string `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID string `json:"user_id" gorm:"type:varchar(64);not null;index:idx_user_orders"`
	Domain string `json:"domain"  gorm:"type:varchar(255);not null;index"`

	AmountMinor     int64  `json:"amount_minor"      gorm:"not null"`
	Currency        string `json:"currency"          gorm:"type:varchar(8);not null"`
	PaymentIntentID string `json:"payment_intent_id" gorm:"type:varchar(64);index"`

	OwnerStrategy string `json:"owner_strategy" gorm:"type:varchar(16)"`
	OwnerID       string `json:"owner_id"       gorm:"type:varchar(64)"`
	Username      string `json:"username,omitempty" gorm:"type:varchar(128)"`

	EmailPlan        string `json:"email_plan,omitempty" gorm:"type:varchar(32)"`
	EmailPlanID      string `json:"-"                    gorm:"type:varchar(16)"`
	EmailProvisioned bool   `json:"email_provisioned"`

	State         string `json:"state"          gorm:"type:varchar(16);not null;check:state IN ('complete','partial','failed')"`
	FailureStage  string `json:"failure_stage,omitempty"  gorm:"type:varchar(32)"`
	FailureReason string `json:"failure_reason,omitempty" gorm:"type:text"`

	NeedsReconciliation bool `json:"needs_reconciliation" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Order.
func (Order) TableName() string { return "orders" }

// Idempotency records a completed checkout keyed by the client-supplied
// Idempotency-Key, so retried POSTs replay the stored order instead of
// charging the card and re-issuing the non-idempotent domain registration.
//
// Uniqueness is per (user_id, key); records expire after a TTL enforced at
// lookup time.
type Idempotency struct {
	ID      string `gorm:"type:char(36);primaryKey"`
	UserID  string `gorm:"type:varchar(64);not null;uniqueIndex:ux_user_key,priority:1"`
	Key     string `gorm:"type:varchar(200);not null;uniqueIndex:ux_user_key,priority:2"`
	OrderID string `gorm:"type:char(36);not null"`
	Status  int    `gorm:"not null"`

	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}

// TableName returns the database table name for Idempotency.
func (Idempotency) TableName() string { return "idempotency" }
