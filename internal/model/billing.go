package model

import "time"

// Billing record status values.
const (
	BillingDraft    = "DRAFT"
	BillingInvoiced = "INVOICED"
	BillingPaid     = "PAID"
)

// KnownBillingStatus reports whether s is a recognized billing status.
func KnownBillingStatus(s string) bool {
	switch s {
	case BillingDraft, BillingInvoiced, BillingPaid:
		return true
	}
	return false
}

// BillingRecord mirrors the `billing_records` table. Period is a YYYY-MM
// month; one record per project per period.
type BillingRecord struct {
	ID        uint64    `json:"id"`
	ProjectID uint64    `json:"project_id"`
	Period    string    `json:"period"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Delivery status values.
const (
	DeliveryPlanned    = "PLANNED"
	DeliveryInProgress = "IN_PROGRESS"
	DeliveryDelivered  = "DELIVERED"
	DeliveryAccepted   = "ACCEPTED"
)

// KnownDeliveryStatus reports whether s is a recognized delivery status.
func KnownDeliveryStatus(s string) bool {
	switch s {
	case DeliveryPlanned, DeliveryInProgress, DeliveryDelivered, DeliveryAccepted:
		return true
	}
	return false
}

// Delivery mirrors the `deliveries` table.
type Delivery struct {
	ID          uint64     `json:"id"`
	ProjectID   uint64     `json:"project_id"`
	Title       string     `json:"title"`
	DueDate     *time.Time `json:"due_date"`
	DeliveredAt *time.Time `json:"delivered_at"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
