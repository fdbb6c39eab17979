package interfaces

import (
	"context"

	"gold-trading-assistant/internal/types"
)

// PriceSource fetches a spot gold quote from one provider.
type PriceSource interface {
	Name() string
	FetchPrice(ctx context.Context) (*types.PriceQuote, error)
}

// NewsProvider fetches ranked gold-relevant headlines from one feed.
type NewsProvider interface {
	Name() string
	FetchNews(ctx context.Context) ([]types.NewsArticle, error)
}

// Collector assembles a full market snapshot for one analysis cycle.
type Collector interface {
	Collect(ctx context.Context) (*types.MarketSnapshot, error)
}
