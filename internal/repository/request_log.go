package repository

import (
	"context"

	"github.com/Behyna/paygw/internal/model"
	"gorm.io/gorm"
)

type RequestLogRepository interface {
	Create(ctx context.Context, log *model.RequestLog) error
	FindByMerchantOrderID(ctx context.Context, merchantOrderID string) ([]model.RequestLog, error)
}

type requestLog struct {
	db *gorm.DB
}

func NewRequestLogRepository(db *gorm.DB) RequestLogRepository {
	return &requestLog{db: db}
}

func (r *requestLog) Create(ctx context.Context, log *model.RequestLog) error {
	return GetTx(ctx, r.db).Create(log).Error
}

func (r *requestLog) FindByMerchantOrderID(ctx context.Context, merchantOrderID string) ([]model.RequestLog, error) {
	var logs []model.RequestLog

	err := GetTx(ctx, r.db).
		Where("merchant_order_id = ?", merchantOrderID).
		Order("created_at ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	return logs, nil
}
