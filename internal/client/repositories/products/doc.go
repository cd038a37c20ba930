// Package products provides the SQLite persistence layer for catalog products.
//
// # Overview
//
// The package defines a Repository interface for the record operations the
// local store needs and a SQLite-backed implementation (SQLiteRepository)
// that runs its statements over a dbx.DBTX.
//
// # Batches
//
// BulkInsert runs in a single transaction and wraps every candidate in its own
// savepoint. A candidate whose id already exists, or whose statement fails, is
// rolled back alone and reported as an item failure; the rest of the batch is
// committed. Only failures of the transaction itself are returned as error.
//
// Typical Usage
//
//	repo := products.NewSQLiteRepository(db)
//	p, _ := repo.Insert(ctx, models.Product{Name: "Lamp"})
//	all, _ := repo.ListAll(ctx)
//	inserted, failures, _ := repo.BulkInsert(ctx, candidates)
package products
