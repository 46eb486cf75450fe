package productmanager

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var ErrProductNotFound = errors.New("product not found")

// Product is a catalog entry. Name is matched case-insensitively.
type Product struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// UnmarshalJSON accepts a quantity written as a float when its value is whole, e.g. 2.0.
func (p *Product) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name     string      `json:"name"`
		Quantity json.Number `json:"quantity"`
		Price    float64     `json:"price"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	quantity := 0
	if raw.Quantity != "" {
		n, err := raw.Quantity.Int64()
		if err != nil {
			f, ferr := raw.Quantity.Float64()
			if ferr != nil || f != math.Trunc(f) {
				return fmt.Errorf("product %q: quantity %s is not a whole number", raw.Name, raw.Quantity)
			}
			n = int64(f)
		}
		quantity = int(n)
	}

	*p = Product{Name: raw.Name, Quantity: quantity, Price: raw.Price}
	return nil
}

// ProductEdit carries the fields to replace in EditProduct. Nil means unchanged.
type ProductEdit struct {
	Name     *string
	Quantity *int
	Price    *float64
}

// ProductManager owns the in-memory catalog and mirrors it to storage
// after every mutation.
type ProductManager interface {
	// Loads the catalog from storage, replacing the in-memory list
	LoadProducts() error

	// Writes the whole catalog to storage
	SaveProducts() error

	// Returns a snapshot of the catalog in store order
	ListProducts() []Product

	FindByName(name string) (*Product, error)
	AddProduct(name string, quantity int, price float64) (*Product, error)
	RemoveProduct(name string) error
	EditProduct(name string, edit ProductEdit) (*Product, error)

	// Applies delta to the quantity unless the result would be negative
	AdjustQuantity(p *Product, delta int) (bool, error)
	UpdatePrice(p *Product, price float64) error
}
