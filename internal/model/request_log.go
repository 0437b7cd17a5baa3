package model

import "time"

const (
	EventInvoiceRequested = "invoice_requested"
	EventStatusChecked    = "status_checked"
	EventCallbackApplied  = "callback_applied"
	EventCallbackReplayed = "callback_replayed"
	EventCallbackRejected = "callback_rejected"
	EventUserReturn       = "user_return"
	EventExpired          = "transaction_expired"
)

// RequestLog is the audit trail of every exchange with the processor and the buyer.
type RequestLog struct {
	ID              string    `gorm:"primaryKey;type:char(36);<-:create"`
	TrackID         string    `gorm:"column:track_id;type:varchar(64);index"`
	Event           string    `gorm:"column:event;type:varchar(50);index;not null"`
	UserID          int64     `gorm:"column:user_id"`
	MerchantOrderID string    `gorm:"column:merchant_order_id;type:varchar(191);index"`
	Reference       string    `gorm:"column:reference;type:varchar(191)"`
	Destination     string    `gorm:"column:destination;type:text"`
	HTTPCode        int       `gorm:"column:http_code"`
	ErrorKind       string    `gorm:"column:error_kind;type:varchar(50)"`
	Payload         string    `gorm:"column:payload;type:text"`
	CreatedAt       time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
}

func (RequestLog) TableName() string {
	return "request_logs"
}
