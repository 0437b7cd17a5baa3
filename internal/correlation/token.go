// Package correlation encodes purchase attempts into the order id sent to the
// processor and decodes them back when the processor calls in.
package correlation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const Delimiter = "-"

var (
	ErrFormat    = errors.New("malformed correlation token")
	ErrDelimiter = errors.New("correlation field contains delimiter")
)

// Fingerprint identifies what a buyer is paying for. At most one attempt per
// fingerprint is live at a time.
type Fingerprint struct {
	Component   string
	PaymentArea string
	ItemID      int64
	UserID      int64
}

func (f Fingerprint) Key() string {
	return strings.Join([]string{
		f.Component,
		f.PaymentArea,
		strconv.FormatInt(f.ItemID, 10),
		strconv.FormatInt(f.UserID, 10),
	}, Delimiter)
}

type Token struct {
	Fingerprint
	AttemptMillis int64
}

// Encode renders {component}-{paymentArea}-{itemId}-{userId}-{attemptTimestamp}.
func Encode(fp Fingerprint, attemptMillis int64) (string, error) {
	if fp.Component == "" || fp.PaymentArea == "" {
		return "", fmt.Errorf("%w: component and payment area are required", ErrFormat)
	}

	if strings.Contains(fp.Component, Delimiter) || strings.Contains(fp.PaymentArea, Delimiter) {
		return "", ErrDelimiter
	}

	if fp.ItemID < 0 || fp.UserID < 0 || attemptMillis < 0 {
		return "", ErrDelimiter
	}

	return fp.Key() + Delimiter + strconv.FormatInt(attemptMillis, 10), nil
}

func Decode(token string) (Token, error) {
	parts := strings.Split(token, Delimiter)
	if len(parts) != 5 {
		return Token{}, fmt.Errorf("%w: expected 5 fields, got %d", ErrFormat, len(parts))
	}

	if parts[0] == "" || parts[1] == "" {
		return Token{}, fmt.Errorf("%w: empty component or payment area", ErrFormat)
	}

	ids := make([]int64, 3)
	for i, raw := range parts[2:] {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return Token{}, fmt.Errorf("%w: field %d is not a non-negative integer", ErrFormat, i+2)
		}
		ids[i] = v
	}

	return Token{
		Fingerprint: Fingerprint{
			Component:   parts[0],
			PaymentArea: parts[1],
			ItemID:      ids[0],
			UserID:      ids[1],
		},
		AttemptMillis: ids[2],
	}, nil
}
