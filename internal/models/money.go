package models

import (
	"fmt"

	appErrors "github.com/noah-isme/course-sessions/pkg/errors"
)

// Money is an immutable, non-negative amount in the smallest currency unit.
type Money struct {
	Price int64 `json:"price"`
}

// NewMoney validates and constructs a Money value.
func NewMoney(price int64) (Money, error) {
	if price < 0 {
		return Money{}, appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("price must not be negative: %d", price))
	}
	return Money{Price: price}, nil
}

// Equal reports value equality.
func (m Money) Equal(other Money) bool {
	return m.Price == other.Price
}

func (m Money) String() string {
	return fmt.Sprintf("%d", m.Price)
}
