// =============================================================================
// Ledger Ingest - Summary Aggregation
// =============================================================================

package ledger

import "time"

// Statistics is the per-run summary block of a ParseResult: counts by
// status, distinct entity counts, the observed transaction-date range, and
// the exact rejection/exclusion tallies.
type Statistics struct {
	// TotalAccepted is the number of accepted transactions.
	TotalAccepted int `json:"totalAccepted"`

	// Activas and Canceladas partition the accepted set by status.
	Activas    int `json:"activas"`
	Canceladas int `json:"canceladas"`

	// DistinctClients and DistinctProducts count distinct names in the
	// accepted set, by case-sensitive exact name. No fuzzy dedup happens at
	// this layer; entity resolution is the persistence layer's job.
	DistinctClients  int `json:"distinctClients"`
	DistinctProducts int `json:"distinctProducts"`

	// FechaMin and FechaMax bound the accepted transaction dates. Both are
	// nil when the accepted set is empty.
	FechaMin *time.Time `json:"fechaMin"`
	FechaMax *time.Time `json:"fechaMax"`

	// InvalidRows is the exact, uncapped rejection count.
	InvalidRows int `json:"invalidRows"`

	// ExcludedCancelled and ExcludedAggregate are the exact exclusion
	// tallies (accumulated-year dialect only).
	ExcludedCancelled int `json:"excludedCancelled"`
	ExcludedAggregate int `json:"excludedAggregate"`
}

// Aggregator folds accepted transactions into a Statistics block. Like the
// Collector, one Aggregator serves exactly one parse.
type Aggregator struct {
	total      int
	activas    int
	canceladas int

	clients  map[string]struct{}
	products map[string]struct{}

	min *time.Time
	max *time.Time
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		clients:  make(map[string]struct{}),
		products: make(map[string]struct{}),
	}
}

// Add folds one accepted transaction into the running statistics.
func (a *Aggregator) Add(tx SalesTransaction) {
	a.total++
	switch tx.Estatus {
	case StatusCancelled:
		a.canceladas++
	default:
		a.activas++
	}

	a.clients[tx.Cliente] = struct{}{}
	a.products[tx.Producto] = struct{}{}

	if a.min == nil || tx.Fecha.Before(*a.min) {
		fecha := tx.Fecha
		a.min = &fecha
	}
	if a.max == nil || tx.Fecha.After(*a.max) {
		fecha := tx.Fecha
		a.max = &fecha
	}
}

// Finalize merges the aggregated counts with the collector's tallies into
// the Statistics block carried on the ParseResult.
func (a *Aggregator) Finalize(c *Collector) Statistics {
	return Statistics{
		TotalAccepted:     a.total,
		Activas:           a.activas,
		Canceladas:        a.canceladas,
		DistinctClients:   len(a.clients),
		DistinctProducts:  len(a.products),
		FechaMin:          a.min,
		FechaMax:          a.max,
		InvalidRows:       c.InvalidCount(),
		ExcludedCancelled: c.ExcludedCancelledCount(),
		ExcludedAggregate: c.ExcludedAggregateCount(),
	}
}
