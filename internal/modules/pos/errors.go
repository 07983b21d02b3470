package pos

import (
	"errors"

	"github.com/georgemunganga/printa-pos/internal/modules/inventory"
	"github.com/georgemunganga/printa-pos/internal/modules/storage"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = inventory.ErrInvalidQuantity
)

type (
	InsufficientInventoryError = inventory.InsufficientInventoryError
	StorageReadError           = storage.ReadError
	StorageWriteError          = storage.WriteError
)
