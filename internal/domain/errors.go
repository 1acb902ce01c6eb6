package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrNoPrice      = errors.New("price unavailable")
	ErrNoQuote      = errors.New("quote unavailable")
	ErrNoPool       = errors.New("no pool address")
	ErrSwapRejected = errors.New("swap rejected")
)
