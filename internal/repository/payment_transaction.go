package repository

import (
	"context"
	"errors"

	"github.com/Behyna/paygw/internal/correlation"
	"github.com/Behyna/paygw/internal/model"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound  = errors.New("TRANSACTION_NOT_FOUND")
	ErrTransactionDuplicate = errors.New("TRANSACTION_DUPLICATE")
	ErrNoRowsAffected       = errors.New("NO_ROWS_AFFECTED")
)

type PaymentTransactionRepository interface {
	Create(ctx context.Context, tx *model.PaymentTransaction) error
	FindLatestByFingerprint(ctx context.Context, fp correlation.Fingerprint) (*model.PaymentTransaction, error)
	FindByReference(ctx context.Context, reference string) (*model.PaymentTransaction, error)
	FindByMerchantOrderID(ctx context.Context, merchantOrderID string) (*model.PaymentTransaction, error)
	FindPendingByUser(ctx context.Context, userID int64) ([]model.PaymentTransaction, error)
	FindPending(ctx context.Context, afterID int64, limit int) ([]model.PaymentTransaction, error)
	Renew(ctx context.Context, tx *model.PaymentTransaction, previousOrderID string) error
	MarkSuccess(ctx context.Context, id int64, now int64, reason string) error
	MarkExpired(ctx context.Context, id int64, now int64, reason string) error
}

type paymentTransaction struct {
	db *gorm.DB
}

func NewPaymentTransactionRepository(db *gorm.DB) PaymentTransactionRepository {
	return &paymentTransaction{db: db}
}

func (r *paymentTransaction) Create(ctx context.Context, tx *model.PaymentTransaction) error {
	err := GetTx(ctx, r.db).Create(tx).Error
	if err == nil {
		return nil
	}

	if isDuplicateKey(err) {
		return ErrTransactionDuplicate
	}

	return err
}

// FindLatestByFingerprint returns the most recently created attempt, ties
// broken by the higher id.
func (r *paymentTransaction) FindLatestByFingerprint(ctx context.Context, fp correlation.Fingerprint) (*model.PaymentTransaction, error) {
	var tx model.PaymentTransaction

	err := GetTx(ctx, r.db).
		Where("component = ? AND payment_area = ? AND item_id = ? AND user_id = ?",
			fp.Component, fp.PaymentArea, fp.ItemID, fp.UserID).
		Order("created_at DESC").
		Order("id DESC").
		Take(&tx).Error

	return found(&tx, err)
}

func (r *paymentTransaction) FindByReference(ctx context.Context, reference string) (*model.PaymentTransaction, error) {
	var tx model.PaymentTransaction
	err := GetTx(ctx, r.db).Where("reference = ?", reference).Take(&tx).Error
	return found(&tx, err)
}

func (r *paymentTransaction) FindByMerchantOrderID(ctx context.Context, merchantOrderID string) (*model.PaymentTransaction, error) {
	var tx model.PaymentTransaction
	err := GetTx(ctx, r.db).Where("merchant_order_id = ?", merchantOrderID).Take(&tx).Error
	return found(&tx, err)
}

func (r *paymentTransaction) FindPendingByUser(ctx context.Context, userID int64) ([]model.PaymentTransaction, error) {
	var txs []model.PaymentTransaction

	err := GetTx(ctx, r.db).
		Where("user_id = ? AND status = ?", userID, model.TransactionStatusPending).
		Order("created_at DESC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}

// FindPending pages through pending rows by id so a sweep sees every row once
// even while earlier pages are being updated.
func (r *paymentTransaction) FindPending(ctx context.Context, afterID int64, limit int) ([]model.PaymentTransaction, error) {
	var txs []model.PaymentTransaction

	err := GetTx(ctx, r.db).
		Where("status = ? AND id > ?", model.TransactionStatusPending, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}

// Renew rewrites an unpaid attempt in place with a fresh invoice. It only
// applies while the row still carries previousOrderID and is not settled.
func (r *paymentTransaction) Renew(ctx context.Context, tx *model.PaymentTransaction, previousOrderID string) error {
	result := GetTx(ctx, r.db).Model(&model.PaymentTransaction{}).
		Where("id = ? AND merchant_order_id = ? AND status <> ?",
			tx.ID, previousOrderID, model.TransactionStatusSuccess).
		Updates(map[string]interface{}{
			"merchant_order_id": tx.MerchantOrderID,
			"reference":         tx.Reference,
			"reference_url":     tx.ReferenceURL,
			"signature":         tx.Signature,
			"amount":            tx.Amount,
			"account_id":        tx.AccountID,
			"status":            model.TransactionStatusPending,
			"pending_reason":    tx.PendingReason,
			"expiry_at":         tx.ExpiryAt,
			"time_updated":      tx.TimeUpdated,
		})

	return rowsAffected(result)
}

func (r *paymentTransaction) MarkSuccess(ctx context.Context, id int64, now int64, reason string) error {
	result := GetTx(ctx, r.db).Model(&model.PaymentTransaction{}).
		Where("id = ? AND status = ?", id, model.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status":         model.TransactionStatusSuccess,
			"pending_reason": reason,
			"time_updated":   now,
		})

	return rowsAffected(result)
}

func (r *paymentTransaction) MarkExpired(ctx context.Context, id int64, now int64, reason string) error {
	result := GetTx(ctx, r.db).Model(&model.PaymentTransaction{}).
		Where("id = ? AND status = ? AND expiry_at < ?", id, model.TransactionStatusPending, now).
		Updates(map[string]interface{}{
			"status":         model.TransactionStatusCanceled,
			"pending_reason": reason,
			"time_updated":   now,
		})

	return rowsAffected(result)
}

func found(tx *model.PaymentTransaction, err error) (*model.PaymentTransaction, error) {
	if err == nil {
		return tx, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}

	return nil, err
}

func rowsAffected(result *gorm.DB) error {
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return ErrTransactionDuplicate
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
