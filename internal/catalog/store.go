package catalog

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

const (
	DefaultLimit = 30
)

type Product struct {
	ID                 int
	Title              string
	Description        string
	Price              decimal.Decimal
	DiscountPercentage decimal.Decimal
	Rating             decimal.Decimal
	Stock              int
	Brand              string
	Category           string
	Thumbnail          string
	Images             []string
}

// productJSON is the DummyJSON wire shape. Decimals go out as JSON numbers.
type productJSON struct {
	ID                 int         `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Price              json.Number `json:"price"`
	DiscountPercentage json.Number `json:"discountPercentage"`
	Rating             json.Number `json:"rating"`
	Stock              int         `json:"stock"`
	Brand              string      `json:"brand"`
	Category           string      `json:"category"`
	Thumbnail          string      `json:"thumbnail"`
	Images             []string    `json:"images"`
}

func (p Product) MarshalJSON() ([]byte, error) {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return json.Marshal(productJSON{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Price:              json.Number(p.Price.String()),
		DiscountPercentage: json.Number(p.DiscountPercentage.String()),
		Rating:             json.Number(p.Rating.String()),
		Stock:              p.Stock,
		Brand:              p.Brand,
		Category:           p.Category,
		Thumbnail:          p.Thumbnail,
		Images:             images,
	})
}

type ProductsPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// Store is the product source behind the catalog API. List returns the
// products ordered by id starting at skip; limit 0 means no limit. The
// second value is the total number of products.
type Store interface {
	Ping(ctx context.Context) error
	List(ctx context.Context, skip, limit int) ([]Product, int, error)
	Get(ctx context.Context, id int) (Product, bool, error)
}
