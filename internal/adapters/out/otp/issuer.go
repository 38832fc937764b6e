// Package otp issues the numeric pickup and delivery codes of an assignment.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const (
	MinLength = 4
	MaxLength = 6
)

var _ ports.CodeIssuer = (*Issuer)(nil)

// Issuer draws codes uniformly from crypto/rand. The two codes of a pair
// always differ, so a pickup code never completes a delivery.
type Issuer struct {
	length int
	bound  *big.Int
	random io.Reader
}

func NewIssuer(length int) (*Issuer, error) {
	return NewIssuerWithSource(length, rand.Reader)
}

// NewIssuerWithSource reads randomness from random instead of crypto/rand.
func NewIssuerWithSource(length int, random io.Reader) (*Issuer, error) {
	if length < MinLength || length > MaxLength {
		return nil, errs.NewValueIsOutOfRangeError("otp length", length, MinLength, MaxLength)
	}
	if random == nil {
		return nil, errs.NewValueIsRequiredError("random source")
	}
	bound := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	return &Issuer{length: length, bound: bound, random: random}, nil
}

func (i *Issuer) Issue(ctx context.Context) (delivery.Codes, error) {
	if err := ctx.Err(); err != nil {
		return delivery.Codes{}, err
	}
	pickup, err := i.draw()
	if err != nil {
		return delivery.Codes{}, err
	}
	drop, err := i.draw()
	for err == nil && drop == pickup {
		drop, err = i.draw()
	}
	if err != nil {
		return delivery.Codes{}, err
	}
	return delivery.Codes{Pickup: pickup, Delivery: drop}, nil
}

func (i *Issuer) draw() (delivery.Code, error) {
	n, err := rand.Int(i.random, i.bound)
	if err != nil {
		return "", fmt.Errorf("draw otp: %w", err)
	}
	return delivery.NewCode(fmt.Sprintf("%0*d", i.length, n))
}
