// internal/records/collections.go
package records

import (
	"github.com/sirupsen/logrus"

	"github.com/yahiawalid23/HEPTA/internal/models"
	"github.com/yahiawalid23/HEPTA/internal/objectstore"
)

const (
	ProductsObject = "products.xlsx"
	OrdersObject   = "orders.xlsx"
)

type (
	ProductStore = Store[models.Product]
	OrderStore   = Store[models.Order]
)

// NewProductStore binds the catalog blob in bucket, shadowed under localDir.
func NewProductStore(remote objectstore.Store, bucket, localDir string, logger *logrus.Logger) *ProductStore {
	return NewStore[models.Product](ProductMapper{}, remote, Options{
		Collection: "products",
		Bucket:     bucket,
		Object:     ProductsObject,
		LocalDir:   localDir,
	}, logger)
}

// NewOrderStore binds the orders blob in bucket, shadowed under localDir.
func NewOrderStore(remote objectstore.Store, bucket, localDir string, logger *logrus.Logger) *OrderStore {
	return NewStore[models.Order](OrderMapper{}, remote, Options{
		Collection: "orders",
		Bucket:     bucket,
		Object:     OrdersObject,
		LocalDir:   localDir,
	}, logger)
}
