// Package common contains shared constants and sentinel errors used across
// the catalog client and server.
package common

const (
	// AuthorizationHeader carries the bearer token on API requests.
	AuthorizationHeader = "Authorization"
	// BearerPrefix precedes the token in AuthorizationHeader.
	BearerPrefix = "Bearer "

	// ProductsPath is the primary API collection endpoint.
	ProductsPath = "/api/products"
	// BulkProductsPath accepts a JSON array of products.
	BulkProductsPath = "/api/products/bulk"
	// SharedSnapshotPath serves and stores the shared catalog snapshot.
	SharedSnapshotPath = "/shared-data/products.json"
)
