package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[int]Product
}

// NewMemStore returns a store holding products.
func NewMemStore(products ...Product) *MemStore {
	s := &MemStore{m: make(map[int]Product, len(products))}
	for _, p := range products {
		s.m[p.ID] = p
	}
	return s
}

// NewStore returns the seeded in-memory catalog used when no database is
// configured.
func NewStore() Store {
	return NewMemStore(SeedProducts()...)
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context, skip, limit int) ([]Product, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]Product, 0, len(s.m))
	for _, p := range s.m {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	return window(all, skip, limit), len(all), nil
}

func (s *MemStore) Get(ctx context.Context, id int) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

func window(all []Product, skip, limit int) []Product {
	if skip >= len(all) {
		return []Product{}
	}
	end := len(all)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return all[skip:end]
}

func SeedProducts() []Product {
	d := decimal.RequireFromString
	img := func(slug string) (string, []string) {
		base := "https://cdn.dummyjson.com/product-images/" + slug
		return base + "/thumbnail.webp", []string{base + "/1.webp"}
	}

	mk := func(id int, title, desc, price, disc, rating string, stock int, brand, category, slug string) Product {
		thumb, images := img(slug)
		return Product{
			ID:                 id,
			Title:              title,
			Description:        desc,
			Price:              d(price),
			DiscountPercentage: d(disc),
			Rating:             d(rating),
			Stock:              stock,
			Brand:              brand,
			Category:           category,
			Thumbnail:          thumb,
			Images:             images,
		}
	}

	return []Product{
		mk(1, "Essence Mascara Lash Princess", "Volumizing and lengthening mascara.", "9.99", "7.17", "4.94", 5, "Essence", "beauty", "beauty/essence-mascara-lash-princess"),
		mk(2, "Eyeshadow Palette with Mirror", "Versatile range of eyeshadow shades.", "19.99", "5.50", "3.28", 44, "Glamour Beauty", "beauty", "beauty/eyeshadow-palette-with-mirror"),
		mk(3, "Powder Canister", "Finely milled setting powder.", "14.99", "18.14", "3.82", 59, "Velvet Touch", "beauty", "beauty/powder-canister"),
		mk(4, "Red Lipstick", "Classic bold lip color.", "12.99", "19.03", "2.51", 68, "Chic Cosmetics", "beauty", "beauty/red-lipstick"),
		mk(5, "Red Nail Polish", "Rich glossy nail color.", "8.99", "2.46", "3.91", 71, "Nail Couture", "beauty", "beauty/red-nail-polish"),
		mk(6, "Calvin Klein CK One", "Unisex fragrance.", "49.99", "0.32", "4.85", 17, "Calvin Klein", "fragrances", "fragrances/calvin-klein-ck-one"),
		mk(7, "Chanel Coco Noir Eau De", "Elegant evening fragrance.", "129.99", "18.64", "2.76", 41, "Chanel", "fragrances", "fragrances/chanel-coco-noir-eau-de"),
		mk(8, "Annibale Colombo Bed", "Luxurious upholstered bed.", "1899.99", "8.09", "4.77", 47, "Annibale Colombo", "furniture", "furniture/annibale-colombo-bed"),
	}
}
