package query

import (
	"fmt"

	"MiniShop/internal/catalogclient"
)

// Key is the identity a fetch result is cached under.
type Key string

const productsRoot Key = "products"

// ProductsKey identifies a product listing page. The default page is the
// bare "products" key.
func ProductsKey(page catalogclient.Page) Key {
	if page.IsDefault() {
		return productsRoot
	}
	return Key(fmt.Sprintf("products?limit=%d&skip=%d", page.Limit, page.Skip))
}

func ProductKey(id int) Key {
	return Key(fmt.Sprintf("products/%d", id))
}
