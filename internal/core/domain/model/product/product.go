package product

import (
	"errors"
	"slices"
	"strings"
	"time"

	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/pkg/errs"
)

// ErrProductIsNotConstructed is returned for a Product that bypassed NewProduct/RestoreProduct.
var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")

// Attributes are the caller supplied fields of a product.
type Attributes struct {
	Name        string
	Category    string
	Price       string
	PriceRange  PriceRange
	Location    string
	Description string
	Image       string
	Stock       int
	Unit        string
	Supplier    string
	Tags        []string
}

// Product is a catalog entry.
type Product struct {
	id          string
	attrs       Attributes
	rating      float64
	reviews     int
	lastUpdated time.Time
	createdAt   time.Time

	isConstructed bool
}

// NewProduct creates an unrated product. A blank price label is derived from the range.
func NewProduct(id string, attrs Attributes, at time.Time) (*Product, error) {
	p := &Product{
		attrs:         cloneAttributes(attrs),
		lastUpdated:   at,
		createdAt:     at,
		isConstructed: true,
	}

	if p.attrs.Price == "" {
		p.attrs.Price = attrs.PriceRange.Label()
	}

	if err := errors.Join(
		p.setID(id),
		p.validateName(),
		p.validateStock(attrs.Stock),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// Snapshot is the flat view of a Product used for persistence and seeding.
type Snapshot struct {
	ID          string
	Attributes  Attributes
	Rating      float64
	Reviews     int
	LastUpdated time.Time
	CreatedAt   time.Time
}

// RestoreProduct rebuilds a product from stored data.
func RestoreProduct(s Snapshot) (*Product, error) {
	p := &Product{
		attrs:         cloneAttributes(s.Attributes),
		rating:        s.Rating,
		reviews:       s.Reviews,
		lastUpdated:   s.LastUpdated,
		createdAt:     s.CreatedAt,
		isConstructed: true,
	}

	if err := errors.Join(p.setID(s.ID), p.validateName()); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

func (p *Product) ID() string               { return p.id }
func (p *Product) Name() string             { return p.attrs.Name }
func (p *Product) Category() string         { return p.attrs.Category }
func (p *Product) Price() string            { return p.attrs.Price }
func (p *Product) PriceRange() PriceRange   { return p.attrs.PriceRange }
func (p *Product) Location() string         { return p.attrs.Location }
func (p *Product) Description() string      { return p.attrs.Description }
func (p *Product) Image() string            { return p.attrs.Image }
func (p *Product) Stock() int               { return p.attrs.Stock }
func (p *Product) Unit() string             { return p.attrs.Unit }
func (p *Product) Supplier() string         { return p.attrs.Supplier }
func (p *Product) Tags() []string           { return slices.Clone(p.attrs.Tags) }
func (p *Product) Rating() float64          { return p.rating }
func (p *Product) Reviews() int             { return p.reviews }
func (p *Product) LastUpdated() time.Time   { return p.lastUpdated }
func (p *Product) CreatedAt() time.Time     { return p.createdAt }
func (p *Product) AveragePrice() kernel.Money { return p.attrs.PriceRange.Average() }

// InventoryValue is the average price times the stock on hand. It fails with
// errs.ErrValueIsOutOfRange when the value does not fit in kernel.Money.
func (p *Product) InventoryValue() (kernel.Money, error) {
	return p.AveragePrice().Mul(p.attrs.Stock)
}

// Changes is a generic patch. Nil fields are left unchanged.
type Changes struct {
	Name        *string
	Category    *string
	Location    *string
	Description *string
	Image       *string
	Unit        *string
	Supplier    *string
	Tags        []string
}

// Update applies the patch and stamps lastUpdated.
func (p *Product) Update(c Changes, at time.Time) error {
	next := p.Clone()
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	assign(&next.attrs.Name, c.Name)
	assign(&next.attrs.Category, c.Category)
	assign(&next.attrs.Location, c.Location)
	assign(&next.attrs.Description, c.Description)
	assign(&next.attrs.Image, c.Image)
	assign(&next.attrs.Unit, c.Unit)
	assign(&next.attrs.Supplier, c.Supplier)
	if c.Tags != nil {
		next.attrs.Tags = slices.Clone(c.Tags)
	}

	if err := next.validateName(); err != nil {
		return err
	}

	next.lastUpdated = at
	*p = *next
	return nil
}

// UpdatePrice replaces the price label and, when given, the structured range.
// Returns the previous label.
func (p *Product) UpdatePrice(label string, priceRange *PriceRange, at time.Time) (string, error) {
	if strings.TrimSpace(label) == "" && priceRange == nil {
		return "", errs.NewValueIsRequiredError("price")
	}

	old := p.attrs.Price
	if priceRange != nil {
		p.attrs.PriceRange = *priceRange
		if label == "" {
			label = priceRange.Label()
		}
	}
	p.attrs.Price = label
	p.lastUpdated = at
	return old, nil
}

// UpdateStock sets the stock level and returns the previous one.
func (p *Product) UpdateStock(stock int, at time.Time) (int, error) {
	if err := p.validateStock(stock); err != nil {
		return 0, err
	}

	old := p.attrs.Stock
	p.attrs.Stock = stock
	p.lastUpdated = at
	return old, nil
}

// Matches searches name, description, category, supplier and tags, ignoring case.
func (p *Product) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}

	for _, field := range []string{p.attrs.Name, p.attrs.Description, p.attrs.Category, p.attrs.Supplier} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}

	return slices.ContainsFunc(p.attrs.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), q)
	})
}

func (p *Product) Clone() *Product {
	c := *p
	c.attrs = cloneAttributes(p.attrs)
	return &c
}

func (p *Product) Snapshot() Snapshot {
	return Snapshot{
		ID:          p.id,
		Attributes:  cloneAttributes(p.attrs),
		Rating:      p.rating,
		Reviews:     p.reviews,
		LastUpdated: p.lastUpdated,
		CreatedAt:   p.createdAt,
	}
}

func (p *Product) setID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errs.NewValueIsRequiredError("id")
	}
	p.id = id
	return nil
}

func (p *Product) validateName() error {
	if strings.TrimSpace(p.attrs.Name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	return nil
}

func (p *Product) validateStock(stock int) error {
	if stock < 0 {
		return errs.NewValueIsOutOfRangeError("stock", stock, 0, "unbounded")
	}
	return nil
}

func cloneAttributes(a Attributes) Attributes {
	a.Tags = slices.Clone(a.Tags)
	return a
}
