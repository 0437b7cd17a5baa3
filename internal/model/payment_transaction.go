package model

import "github.com/Behyna/paygw/internal/correlation"

type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "PENDING"
	TransactionStatusSuccess  TransactionStatus = "SUCCESS"
	TransactionStatusCanceled TransactionStatus = "CANCELED"
)

// PaymentTransaction is one purchase attempt. Timestamps are epoch milliseconds.
type PaymentTransaction struct {
	ID              int64             `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	MerchantOrderID string            `gorm:"column:merchant_order_id;type:varchar(191);uniqueIndex;not null"`
	Component       string            `gorm:"column:component;type:varchar(100);index:idx_fingerprint,priority:1;not null"`
	PaymentArea     string            `gorm:"column:payment_area;type:varchar(100);index:idx_fingerprint,priority:2;not null"`
	ItemID          int64             `gorm:"column:item_id;index:idx_fingerprint,priority:3;not null"`
	UserID          int64             `gorm:"column:user_id;index:idx_fingerprint,priority:4;index:idx_user_status,priority:1;not null"`
	AccountID       int64             `gorm:"column:account_id"`
	Amount          int64             `gorm:"column:amount;not null"`
	Currency        string            `gorm:"column:currency;type:varchar(3);not null"`
	Reference       string            `gorm:"column:reference;type:varchar(191);index"`
	ReferenceURL    string            `gorm:"column:reference_url;type:text"`
	Signature       string            `gorm:"column:signature;type:varchar(128)"`
	Status          TransactionStatus `gorm:"column:status;type:varchar(20);index:idx_user_status,priority:2;index:idx_status_expiry,priority:1;not null"`
	PendingReason   string            `gorm:"column:pending_reason;type:varchar(255)"`
	ExpiryAt        int64             `gorm:"column:expiry_at;index:idx_status_expiry,priority:2;not null"`
	TimeUpdated     int64             `gorm:"column:time_updated;not null"`
	CreatedAt       int64             `gorm:"column:created_at;index:idx_fingerprint,priority:5;autoCreateTime:milli"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

func (t PaymentTransaction) Fingerprint() correlation.Fingerprint {
	return correlation.Fingerprint{
		Component:   t.Component,
		PaymentArea: t.PaymentArea,
		ItemID:      t.ItemID,
		UserID:      t.UserID,
	}
}

// Expired reports whether the attempt's local expiry has passed at now.
func (t PaymentTransaction) Expired(now int64) bool {
	return t.ExpiryAt < now
}
