package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Behyna/paygw/pkg/platform"
)

type platformPayables struct {
	client platform.Client
}

func NewPayableResolver(client platform.Client) PayableResolver {
	return &platformPayables{client: client}
}

func (p *platformPayables) Resolve(ctx context.Context, component, paymentArea string, itemID int64) (Payable, error) {
	payable, err := p.client.GetPayable(ctx, component, paymentArea, itemID)
	if err != nil {
		if errors.Is(err, platform.ErrPayableNotFound) || errors.Is(err, platform.ErrValidationFailed) {
			return Payable{}, err
		}
		return Payable{}, fmt.Errorf("%w: %w", ErrPayableUnavailable, err)
	}

	return Payable{
		Amount:    payable.Amount,
		Currency:  payable.Currency,
		AccountID: payable.AccountID,
	}, nil
}
