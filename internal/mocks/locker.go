package mocks

import (
	"context"

	"github.com/Behyna/paygw/pkg/lock"
	"github.com/stretchr/testify/mock"
)

type Locker struct {
	mock.Mock
}

func (l *Locker) Acquire(ctx context.Context, key string) (lock.Lease, error) {
	args := l.Called(ctx, key)
	lease, _ := args.Get(0).(lock.Lease)
	return lease, args.Error(1)
}

type Lease struct {
	mock.Mock
}

func (l *Lease) Release(ctx context.Context) error {
	args := l.Called(ctx)
	return args.Error(0)
}
