package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Behyna/paygw/internal/correlation"
	"github.com/Behyna/paygw/internal/model"
	"github.com/Behyna/paygw/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingTransaction() *model.PaymentTransaction {
	return &model.PaymentTransaction{
		MerchantOrderID: "enrol_fee-fee-42-7-1690000000000",
		Component:       "enrol_fee",
		PaymentArea:     "fee",
		ItemID:          42,
		UserID:          7,
		Amount:          150000,
		Currency:        "IDR",
		Reference:       "REF1",
		Status:          model.TransactionStatusPending,
		ExpiryAt:        1690003600000,
		TimeUpdated:     1690000000000,
		CreatedAt:       1690000000000,
	}
}

func TestPaymentTransaction_Create(t *testing.T) {
	t.Run("inserts and assigns id", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewPaymentTransactionRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `payment_transactions`").WillReturnResult(sqlmock.NewResult(5, 1))
		mock.ExpectCommit()

		tx := pendingTransaction()
		err := repo.Create(context.Background(), tx)

		require.NoError(t, err)
		assert.Equal(t, int64(5), tx.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate order id", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewPaymentTransactionRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `payment_transactions`").
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
		mock.ExpectRollback()

		err := repo.Create(context.Background(), pendingTransaction())

		assert.Equal(t, repository.ErrTransactionDuplicate, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPaymentTransaction_FindLatestByFingerprint(t *testing.T) {
	fp := correlation.Fingerprint{Component: "enrol_fee", PaymentArea: "fee", ItemID: 42, UserID: 7}

	t.Run("latest wins", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewPaymentTransactionRepository(db)

		rows := sqlmock.NewRows(transactionColumns).
			AddRow(9, "enrol_fee-fee-42-7-1690000000000", "enrol_fee", "fee", 42, 7, "REF1", "PENDING", 1690003600000, 1690000000000)

		mock.ExpectQuery("SELECT \\* FROM `payment_transactions` WHERE .*ORDER BY created_at DESC,id DESC LIMIT").
			WillReturnRows(rows)

		tx, err := repo.FindLatestByFingerprint(context.Background(), fp)

		require.NoError(t, err)
		assert.Equal(t, int64(9), tx.ID)
		assert.Equal(t, model.TransactionStatusPending, tx.Status)
		assert.Equal(t, "REF1", tx.Reference)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no attempt yet", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewPaymentTransactionRepository(db)

		mock.ExpectQuery("SELECT \\* FROM `payment_transactions`").
			WillReturnRows(sqlmock.NewRows(transactionColumns))

		tx, err := repo.FindLatestByFingerprint(context.Background(), fp)

		assert.Nil(t, tx)
		assert.Equal(t, repository.ErrTransactionNotFound, err)
	})

	t.Run("database error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewPaymentTransactionRepository(db)

		dbErr := errors.New("connection reset")
		mock.ExpectQuery("SELECT \\* FROM `payment_transactions`").WillReturnError(dbErr)

		_, err := repo.FindLatestByFingerprint(context.Background(), fp)

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestPaymentTransaction_FindByReference(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewPaymentTransactionRepository(db)

	rows := sqlmock.NewRows(transactionColumns).
		AddRow(9, "enrol_fee-fee-42-7-1690000000000", "enrol_fee", "fee", 42, 7, "REF1", "SUCCESS", 1690003600000, 1690000000000)

	mock.ExpectQuery("SELECT \\* FROM `payment_transactions` WHERE reference = \\?").
		WithArgs("REF1", 1).
		WillReturnRows(rows)

	tx, err := repo.FindByReference(context.Background(), "REF1")

	require.NoError(t, err)
	assert.Equal(t, model.TransactionStatusSuccess, tx.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentTransaction_MarkSuccess(t *testing.T) {
	t.Run("pending row transitions", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewPaymentTransactionRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `payment_transactions` SET `pending_reason`=\\?,`status`=\\?,`time_updated`=\\? WHERE \\(id = \\? AND status = \\?\\)").
			WithArgs("Received callback", "SUCCESS", int64(1690000100000), int64(9), "PENDING").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.MarkSuccess(context.Background(), 9, 1690000100000, "Received callback")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row no longer pending", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewPaymentTransactionRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `payment_transactions`").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.MarkSuccess(context.Background(), 9, 1690000100000, "Received callback")

		assert.Equal(t, repository.ErrNoRowsAffected, err)
	})
}

func TestPaymentTransaction_MarkExpired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewPaymentTransactionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `payment_transactions` SET .* WHERE \\(id = \\? AND status = \\? AND expiry_at < \\?\\)").
		WithArgs("Expired transaction", "CANCELED", int64(1690009999999), int64(9), "PENDING", int64(1690009999999)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.MarkExpired(context.Background(), 9, 1690009999999, "Expired transaction")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentTransaction_Renew(t *testing.T) {
	t.Run("rewrites the same row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewPaymentTransactionRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `payment_transactions` SET .* WHERE \\(id = \\? AND merchant_order_id = \\? AND status <> \\?\\)").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx := pendingTransaction()
		tx.ID = 9
		tx.MerchantOrderID = "enrol_fee-fee-42-7-1690009999999"

		err := repo.Renew(context.Background(), tx, "enrol_fee-fee-42-7-1690000000000")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost race", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewPaymentTransactionRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `payment_transactions`").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		tx := pendingTransaction()
		tx.ID = 9

		err := repo.Renew(context.Background(), tx, "enrol_fee-fee-42-7-1")

		assert.Equal(t, repository.ErrNoRowsAffected, err)
	})
}

func TestPaymentTransaction_FindPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewPaymentTransactionRepository(db)

	rows := sqlmock.NewRows(transactionColumns).
		AddRow(10, "a-b-1-2-3", "a", "b", 1, 2, "R10", "PENDING", 100, 1).
		AddRow(11, "a-b-1-2-4", "a", "b", 1, 2, "R11", "PENDING", 200, 2)

	mock.ExpectQuery("SELECT \\* FROM `payment_transactions` WHERE status = \\? AND id > \\? ORDER BY id ASC LIMIT").
		WillReturnRows(rows)

	txs, err := repo.FindPending(context.Background(), 9, 100)

	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, int64(10), txs[0].ID)
	assert.Equal(t, int64(11), txs[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
