package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Behyna/paygw/internal/model"
	"github.com/Behyna/paygw/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestTransactionManager_WithTx(t *testing.T) {
	t.Run("commits when fn succeeds", func(t *testing.T) {
		db, mock := newMockDB(t)
		tm := repository.NewTransactionManager(db)
		logs := repository.NewRequestLogRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `request_logs`").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := tm.WithTx(context.Background(), func(ctx context.Context) error {
			return logs.Create(ctx, &model.RequestLog{ID: "0b6f7c7e-5d0c-4f6e-9f43-8e7c1b2a3d4e", Event: model.EventCallbackApplied})
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		db, mock := newMockDB(t)
		tm := repository.NewTransactionManager(db)

		mock.ExpectBegin()
		mock.ExpectRollback()

		failure := errors.New("publish failed")
		err := tm.WithTx(context.Background(), func(ctx context.Context) error {
			return failure
		})

		assert.Equal(t, failure, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
