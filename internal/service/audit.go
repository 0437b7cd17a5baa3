package service

import (
	"context"
	"encoding/json"

	"github.com/Behyna/paygw/internal/model"
	"github.com/Behyna/paygw/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditRecorder keeps the request log. Recording never fails the calling flow.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type audit struct {
	repo   repository.RequestLogRepository
	logger *zap.Logger
}

func NewAuditRecorder(repo repository.RequestLogRepository, logger *zap.Logger) AuditRecorder {
	return &audit{repo: repo, logger: logger}
}

func (a *audit) Record(ctx context.Context, entry AuditEntry) {
	log := model.RequestLog{
		ID:              uuid.NewString(),
		TrackID:         TrackID(ctx),
		Event:           entry.Event,
		UserID:          entry.UserID,
		MerchantOrderID: entry.MerchantOrderID,
		Reference:       entry.Reference,
		Destination:     entry.Destination,
		HTTPCode:        entry.HTTPCode,
		ErrorKind:       entry.ErrorKind,
		Payload:         encodePayload(entry.Payload),
	}

	a.logger.Info("request log",
		zap.String("event", log.Event),
		zap.String("trackID", log.TrackID),
		zap.Int64("userID", log.UserID),
		zap.String("merchantOrderID", log.MerchantOrderID),
		zap.String("reference", log.Reference),
		zap.String("destination", log.Destination),
		zap.Int("httpCode", log.HTTPCode),
		zap.String("errorKind", log.ErrorKind))

	if err := a.repo.Create(ctx, &log); err != nil {
		a.logger.Error("failed to store request log",
			zap.String("event", log.Event),
			zap.String("merchantOrderID", log.MerchantOrderID),
			zap.Error(err))
	}
}

func encodePayload(payload any) string {
	switch p := payload.(type) {
	case nil:
		return ""
	case string:
		return p
	case []byte:
		return string(p)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(b)
}
