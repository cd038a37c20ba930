// Package models defines the catalog data model shared by the client and the
// catalog API server: products, their identifiers, and sync snapshots.
package models
