package storefront

import (
	"MiniShop/internal/cart"
	"MiniShop/internal/catalogclient"
	"MiniShop/internal/query"
	"MiniShop/internal/theme"
)

// Screen views. Money is rendered with two fractional digits.

type ProductCard struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Thumbnail string `json:"thumbnail"`
	Rating    string `json:"rating"`
	Brand     string `json:"brand"`
	Category  string `json:"category"`
}

type HomeView struct {
	Status   query.Status  `json:"status"`
	Theme    theme.Mode    `json:"theme"`
	Products []ProductCard `json:"products"`
	Total    int           `json:"total"`
	Skip     int           `json:"skip"`
	Limit    int           `json:"limit"`
}

type ProductDetail struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              string   `json:"price"`
	DiscountPercentage string   `json:"discountPercentage"`
	Rating             string   `json:"rating"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
}

type DetailView struct {
	Status  query.Status  `json:"status"`
	Theme   theme.Mode    `json:"theme"`
	Product ProductDetail `json:"product"`
	InCart  int           `json:"in_cart"`
}

type CartLineView struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Thumbnail string `json:"thumbnail"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type CartView struct {
	CartID     string         `json:"cart_id"`
	Theme      theme.Mode     `json:"theme"`
	Lines      []CartLineView `json:"lines"`
	TotalItems int            `json:"total_items"`
	Subtotal   string         `json:"subtotal"`
	Empty      bool           `json:"empty"`
}

type ThemeView struct {
	Mode    theme.Mode    `json:"mode"`
	Palette theme.Palette `json:"palette"`
}

type CartSummary struct {
	TotalItems int    `json:"total_items"`
	Subtotal   string `json:"subtotal"`
}

type ProfileView struct {
	Name     string      `json:"name"`
	Subtitle string      `json:"subtitle"`
	Theme    ThemeView   `json:"theme"`
	Cart     CartSummary `json:"cart"`
}

func homeView(mode theme.Mode, page catalogclient.ProductsPage) HomeView {
	cards := make([]ProductCard, 0, len(page.Products))
	for _, p := range page.Products {
		cards = append(cards, ProductCard{
			ID:        p.ID,
			Title:     p.Title,
			Price:     p.Price.StringFixed(2),
			Thumbnail: p.Thumbnail,
			Rating:    p.Rating.StringFixed(2),
			Brand:     p.Brand,
			Category:  p.Category,
		})
	}
	return HomeView{
		Status:   query.StatusSuccess,
		Theme:    mode,
		Products: cards,
		Total:    page.Total,
		Skip:     page.Skip,
		Limit:    page.Limit,
	}
}

func detailView(mode theme.Mode, p catalogclient.Product, inCart int) DetailView {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return DetailView{
		Status: query.StatusSuccess,
		Theme:  mode,
		Product: ProductDetail{
			ID:                 p.ID,
			Title:              p.Title,
			Description:        p.Description,
			Price:              p.Price.StringFixed(2),
			DiscountPercentage: p.DiscountPercentage.StringFixed(2),
			Rating:             p.Rating.StringFixed(2),
			Stock:              p.Stock,
			Brand:              p.Brand,
			Category:           p.Category,
			Thumbnail:          p.Thumbnail,
			Images:             images,
		},
		InCart: inCart,
	}
}

func cartView(mode theme.Mode, snap cart.Snapshot) CartView {
	lines := make([]CartLineView, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		lines = append(lines, CartLineView{
			ID:        l.ID,
			Title:     l.Title,
			Price:     l.Price.StringFixed(2),
			Thumbnail: l.Thumbnail,
			Quantity:  l.Quantity,
			LineTotal: l.Total().StringFixed(2),
		})
	}
	return CartView{
		CartID:     snap.CartID,
		Theme:      mode,
		Lines:      lines,
		TotalItems: snap.TotalItems,
		Subtotal:   snap.Subtotal.StringFixed(2),
		Empty:      snap.Empty(),
	}
}

func themeView(mode theme.Mode) ThemeView {
	return ThemeView{Mode: mode, Palette: theme.PaletteFor(mode)}
}
