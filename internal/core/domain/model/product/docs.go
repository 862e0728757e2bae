// Package product provides the Product entity listed in the marketplace catalog.
//
// A product carries a display price label ("₹50-60/Piece") together with a structured
// PriceRange used for filtering and valuation, a stock level, and catalog metadata
// (category, supplier, rating, tags). Inventory value is the average of the price range
// multiplied by the stock.
package product
