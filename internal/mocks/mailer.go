package mocks

import (
	"context"

	"github.com/Behyna/paygw/pkg/mailer"
	"github.com/stretchr/testify/mock"
)

type Mailer struct {
	mock.Mock
}

func (m *Mailer) Send(ctx context.Context, message mailer.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}
