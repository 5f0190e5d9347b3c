package sales

import "errors"

// ErrSaleNotFound indicates no sale matches the lookup.
var ErrSaleNotFound = errors.New("sale not found")
