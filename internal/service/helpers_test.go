package service_test

import (
	"time"

	"github.com/Behyna/paygw/internal/config"
	"github.com/Behyna/paygw/internal/correlation"
	"github.com/Behyna/paygw/internal/metrics"
	"github.com/Behyna/paygw/internal/mocks"
	"github.com/Behyna/paygw/internal/model"
	"github.com/Behyna/paygw/internal/service"
	"github.com/Behyna/paygw/pkg/duitku"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
)

const (
	testMerchant    = "D0001"
	testAPIKey      = "secret"
	testOrderID     = "enrol_fee-fee-42-7-1690000000000"
	testAttemptMs   = int64(1690000000000)
	testPublicBase  = "https://pay.example.com"
	testFailureURL  = "https://lms.example.com/payment/failed"
	testDescription = "Course fee"
	expiryMillis    = int64(1440 * 60000)
)

var testFingerprint = correlation.Fingerprint{Component: "enrol_fee", PaymentArea: "fee", ItemID: 42, UserID: 7}

func testConfig() *config.Config {
	return &config.Config{
		API: config.API{PublicBaseURL: testPublicBase},
		Duitku: duitku.Config{
			Enable:        true,
			Environment:   duitku.EnvironmentSandbox,
			MerchantCode:  testMerchant,
			APIKey:        testAPIKey,
			ExpiryMinutes: 1440,
		},
		Checkout: config.Checkout{FailureURL: testFailureURL, Currencies: []string{"IDR"}},
		Sweeper:  config.Sweeper{BatchSize: 2, Concurrency: 2},
		Delivery: config.Delivery{MaxElapsedTime: time.Millisecond},
	}
}

func testURLs() service.URLs {
	return service.NewURLs(testPublicBase, testFailureURL)
}

func fixedClock(ms int64) service.Clock {
	return func() time.Time { return time.UnixMilli(ms) }
}

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetricsWith(prometheus.NewRegistry())
}

func newAudit() *mocks.AuditRecorder {
	audit := &mocks.AuditRecorder{}
	audit.On("Record", mock.Anything, mock.Anything).Return()
	return audit
}

// pendingRow is the attempt created at testAttemptMs for testFingerprint.
func pendingRow() *model.PaymentTransaction {
	return &model.PaymentTransaction{
		ID:              11,
		MerchantOrderID: testOrderID,
		Component:       "enrol_fee",
		PaymentArea:     "fee",
		ItemID:          42,
		UserID:          7,
		AccountID:       3,
		Amount:          150000,
		Currency:        "IDR",
		Reference:       "REF1",
		Status:          model.TransactionStatusPending,
		ExpiryAt:        testAttemptMs + expiryMillis,
		TimeUpdated:     testAttemptMs,
		CreatedAt:       testAttemptMs,
	}
}

func withStatus(tx *model.PaymentTransaction, status model.TransactionStatus) *model.PaymentTransaction {
	tx.Status = status
	return tx
}
