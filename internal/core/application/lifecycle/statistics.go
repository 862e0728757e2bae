package lifecycle

import (
	"math"

	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/core/domain/model/order"
)

// Statistics summarizes the order collection for the dashboard cards.
type Statistics struct {
	TotalOrders     int
	CompletedOrders int
	PendingOrders   int
	TotalValue      kernel.Money

	// CompletionRate is completed/total*100 rounded to one decimal, 0 for an empty collection.
	CompletionRate float64

	ByStatus map[order.Status]int
}

// Statistics computes the summary over the current collection. Totals that do not parse,
// or that would overflow the sum, are left out of TotalValue and logged.
func (s *Service) Statistics() Statistics {
	orders := s.List()

	stats := Statistics{
		TotalOrders: len(orders),
		ByStatus:    make(map[order.Status]int),
	}

	for _, o := range orders {
		stats.ByStatus[o.Status()]++
		if o.Status() == order.Completed {
			stats.CompletedOrders++
		}

		amount, err := o.Amount()
		if err != nil {
			s.logger.Warn("order total skipped in statistics", "orderID", o.ID(), "total", o.Total(), "error", err)
			continue
		}
		sum, err := stats.TotalValue.Add(amount)
		if err != nil {
			s.logger.Warn("order total skipped in statistics", "orderID", o.ID(), "total", o.Total(), "error", err)
			continue
		}
		stats.TotalValue = sum
	}

	stats.PendingOrders = stats.TotalOrders - stats.CompletedOrders
	if stats.TotalOrders > 0 {
		rate := float64(stats.CompletedOrders) / float64(stats.TotalOrders) * 100
		stats.CompletionRate = math.Round(rate*10) / 10
	}

	return stats
}
