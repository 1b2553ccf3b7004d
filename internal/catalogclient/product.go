package catalogclient

import "github.com/shopspring/decimal"

// Product mirrors the DummyJSON product record. Decimal fields are decoded
// from the JSON number literal, so prices never pass through float64.
type Product struct {
	ID                 int             `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	Rating             decimal.Decimal `json:"rating"`
	Stock              int             `json:"stock"`
	Brand              string          `json:"brand"`
	Category           string          `json:"category"`
	Thumbnail          string          `json:"thumbnail"`
	Images             []string        `json:"images"`
}

type ProductsPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// Page selects a window of the product list. The zero value asks the API
// for its default page.
type Page struct {
	Limit int
	Skip  int
}

func (p Page) IsDefault() bool { return p.Limit == 0 && p.Skip == 0 }
