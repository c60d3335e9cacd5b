package domain

import (
	"context"
	"time"
)

// Repository stores daily exchange rates.
type Repository interface {
	Find(ctx context.Context, day time.Time, from, to string) (*ExchangeRate, error)
	Latest(ctx context.Context, from, to string) (*ExchangeRate, error)
	List(ctx context.Context, req ListRequest) ([]ExchangeRate, error)
	Upsert(ctx context.Context, rates []ExchangeRate) (int, error)
}

// Source fetches a day's quotes from the external rate feed.
type Source interface {
	Fetch(ctx context.Context, day time.Time) ([]ExchangeRate, error)
}
