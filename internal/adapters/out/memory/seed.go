package memory

import (
	"time"

	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/core/domain/model/order"
	"agromarket/internal/core/domain/model/product"
)

func day(value string) time.Time {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}
	return t
}

// SeedOrders is the demonstration order book, oldest first. Repositories reorder it.
func SeedOrders() []order.Snapshot {
	const location = "Bowenpally, Hyderabad"

	orders := []order.Snapshot{
		{ID: "ORD-001", Status: order.Delivered, Date: day("2024-01-15"), Customer: "Agricultor Juan Pérez",
			Total: "₹15,000", Items: []string{"Coco Verde", "Coco Seco"}, EstimatedDelivery: day("2024-01-20")},
		{ID: "ORD-002", Status: order.Delivered, Date: day("2024-01-18"), Customer: "Agricultor María García",
			Total: "₹12,500", Items: []string{"Coco Tender"}, EstimatedDelivery: day("2024-01-25")},
		{ID: "ORD-003", Status: order.Loaded, Date: day("2024-01-20"), Customer: "Agricultor Carlos López",
			Total: "₹18,750", Items: []string{"Coco Verde", "Coco Seco", "Coco Tender"}, EstimatedDelivery: day("2024-01-30")},
		{ID: "ORD-004", Status: order.Accepted, Date: day("2024-01-22"), Customer: "Agricultor Ana Rodríguez",
			Total: "₹9,800", Items: []string{"Coco Verde"}, EstimatedDelivery: day("2024-02-05")},
		{ID: "ORD-005", Status: order.Placed, Date: day("2024-01-25"), Customer: "Agricultor Luis Martínez",
			Total: "₹22,300", Items: []string{"Coco Seco", "Coco Tender"}, EstimatedDelivery: day("2024-02-10")},
	}

	for i := range orders {
		orders[i].Location = location
		orders[i].CreatedAt = orders[i].Date
		orders[i].Progress = orders[i].Status.Progress()
	}
	return orders
}

type seedProduct struct {
	id, name, category, location, description, unit, supplier string
	minPrice, maxPrice                                          string
	stock, reviews                                              int
	rating                                                      float64
	tags                                                        []string
}

// SeedProducts is the demonstration catalog in id order.
func SeedProducts() []product.Snapshot {
	seeds := []seedProduct{
		{"PROD-001", "Coco Verde", "Cocos", "Bowenpally (3 KM)",
			"Coco verde fresco y jugoso, perfecto para consumo directo", "Piece", "Agricultor Juan Pérez",
			"50", "60", 150, 23, 4.5, []string{"fresco", "jugoso", "natural"}},
		{"PROD-002", "Coco Karnataka", "Cocos", "Bowenpally (3 KM)",
			"Coco de la región de Karnataka, conocido por su dulzura", "Piece", "Agricultor María García",
			"50", "60", 120, 18, 4.3, []string{"dulce", "karnataka", "premium"}},
		{"PROD-003", "Coco Kerala", "Cocos", "Bowenpally (3 KM)",
			"Coco de Kerala, famoso por su calidad y sabor único", "Piece", "Agricultor Carlos López",
			"50", "60", 95, 31, 4.7, []string{"kerala", "calidad", "sabor"}},
		{"PROD-004", "Coco Seco", "Cocos", "Bowenpally (5 KM)",
			"Coco seco de alta calidad, perfecto para cocina y repostería", "Kg", "Agricultor Ana Rodríguez",
			"80", "100", 200, 15, 4.2, []string{"seco", "cocina", "repostería"}},
		{"PROD-005", "Coco Rallado", "Cocos Procesados", "Bowenpally (2 KM)",
			"Coco rallado fresco, listo para usar en recetas", "Kg", "Agricultor Luis Martínez",
			"120", "150", 75, 28, 4.6, []string{"rallado", "fresco", "listo"}},
		{"PROD-006", "Aceite de Coco", "Aceites", "Bowenpally (8 KM)",
			"Aceite de coco virgen extra, prensado en frío", "Litro", "Agricultor Sofía Fernández",
			"300", "400", 45, 42, 4.8, []string{"aceite", "virgen", "prensado"}},
	}

	updated := day("2024-01-25")
	products := make([]product.Snapshot, 0, len(seeds))
	for _, s := range seeds {
		priceRange := product.PriceRange{
			Min:      kernel.MustParseMoney(s.minPrice),
			Max:      kernel.MustParseMoney(s.maxPrice),
			Currency: kernel.CurrencySymbol,
			Unit:     s.unit,
		}
		products = append(products, product.Snapshot{
			ID: s.id,
			Attributes: product.Attributes{
				Name:        s.name,
				Category:    s.category,
				Price:       priceRange.Label(),
				PriceRange:  priceRange,
				Location:    s.location,
				Description: s.description,
				Stock:       s.stock,
				Unit:        s.unit,
				Supplier:    s.supplier,
				Tags:        s.tags,
			},
			Rating:      s.rating,
			Reviews:     s.reviews,
			LastUpdated: updated,
			CreatedAt:   updated,
		})
	}
	return products
}
