// Package productrepo persists catalog products with GORM.
package productrepo

import (
	"time"

	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/core/domain/model/product"

	"github.com/lib/pq"
)

// ProductDTO is the products table row. Prices are stored in paise.
type ProductDTO struct {
	ID          string `gorm:"primaryKey;size:32"`
	Name        string `gorm:"not null"`
	Category    string `gorm:"index"`
	Price       string
	MinPaise    int64
	MaxPaise    int64
	Currency    string `gorm:"size:8"`
	PriceUnit   string `gorm:"size:32"`
	Location    string
	Description string
	Image       string
	Stock       int
	Unit        string `gorm:"size:32"`
	Supplier    string
	Tags        pq.StringArray `gorm:"type:text[]"`
	Rating      float64
	Reviews     int
	LastUpdated time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
}

func (ProductDTO) TableName() string {
	return "products"
}

func fromDomain(p *product.Product) ProductDTO {
	return fromSnapshot(p.Snapshot())
}

func fromSnapshot(s product.Snapshot) ProductDTO {
	a := s.Attributes
	tags := pq.StringArray(a.Tags)
	if tags == nil {
		tags = pq.StringArray{}
	}

	return ProductDTO{
		ID:          s.ID,
		Name:        a.Name,
		Category:    a.Category,
		Price:       a.Price,
		MinPaise:    a.PriceRange.Min.Paise(),
		MaxPaise:    a.PriceRange.Max.Paise(),
		Currency:    a.PriceRange.Currency,
		PriceUnit:   a.PriceRange.Unit,
		Location:    a.Location,
		Description: a.Description,
		Image:       a.Image,
		Stock:       a.Stock,
		Unit:        a.Unit,
		Supplier:    a.Supplier,
		Tags:        tags,
		Rating:      s.Rating,
		Reviews:     s.Reviews,
		LastUpdated: s.LastUpdated,
		CreatedAt:   s.CreatedAt,
	}
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	return product.RestoreProduct(product.Snapshot{
		ID: dto.ID,
		Attributes: product.Attributes{
			Name:     dto.Name,
			Category: dto.Category,
			Price:    dto.Price,
			PriceRange: product.PriceRange{
				Min:      kernel.MoneyFromPaise(dto.MinPaise),
				Max:      kernel.MoneyFromPaise(dto.MaxPaise),
				Currency: dto.Currency,
				Unit:     dto.PriceUnit,
			},
			Location:    dto.Location,
			Description: dto.Description,
			Image:       dto.Image,
			Stock:       dto.Stock,
			Unit:        dto.Unit,
			Supplier:    dto.Supplier,
			Tags:        []string(dto.Tags),
		},
		Rating:      dto.Rating,
		Reviews:     dto.Reviews,
		LastUpdated: dto.LastUpdated.UTC(),
		CreatedAt:   dto.CreatedAt.UTC(),
	})
}
