package catalog

// Repository is read-only access to the product catalog.
type Repository interface {
	All() []Product
	Lookup(name string) (Product, bool)
}
