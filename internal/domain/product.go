package domain

type Product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type ProductRepository interface {
	CreateProduct(product *Product) (*Product, error)
	GetProductByID(id int) (*Product, error)
	UpdateProduct(product *Product) error
	DeleteProduct(id int) error
	ListProducts() ([]Product, error)
	// ListProductsInStock returns products with stock > 0, ordered by name,
	// for the purchase form selector.
	ListProductsInStock() ([]Product, error)
}
