package catalog

import (
	"math"

	"agromarket/internal/core/domain/model/kernel"
)

type Statistics struct {
	TotalProducts   int
	TotalCategories int
	TotalStock      int

	// TotalValue sums average price times stock over the catalog.
	TotalValue        kernel.Money
	CategoryBreakdown map[string]int

	// AverageRating is rounded to one decimal, 0 for an empty catalog.
	AverageRating float64
}

func (s *Service) Statistics() Statistics {
	products := s.List()

	stats := Statistics{
		TotalProducts:     len(products),
		CategoryBreakdown: make(map[string]int),
	}

	var ratingSum float64
	for _, p := range products {
		stats.CategoryBreakdown[p.Category()]++
		stats.TotalStock += p.Stock()
		ratingSum += p.Rating()

		value, err := p.InventoryValue()
		if err == nil {
			value, err = stats.TotalValue.Add(value)
		}
		if err != nil {
			s.logger.Warn("product value skipped in statistics", "productID", p.ID(), "error", err)
			continue
		}
		stats.TotalValue = value
	}

	stats.TotalCategories = len(stats.CategoryBreakdown)
	if len(products) > 0 {
		stats.AverageRating = math.Round(ratingSum/float64(len(products))*10) / 10
	}

	return stats
}
