package repository

import "context"

// Collection names persisted by the bank.
const (
	CollectionUsers        = "users"
	CollectionTransactions = "transactions"
	CollectionMessages     = "messages"
)

// Collections lists every collection the application initialises.
var Collections = []string{
	CollectionUsers,
	CollectionTransactions,
	CollectionMessages,
}

// Record is one flat key/value entry of a collection.
type Record = map[string]any

// Store persists named collections as ordered lists of records.
//
// Load never fails on missing or unparsable data: it returns an empty list
// instead. Errors are reserved for I/O failures of the backend itself.
// Save rewrites the whole collection.
type Store interface {
	// Ensure initialises absent collections to empty.
	Ensure(ctx context.Context, collections ...string) error

	// Load returns the records of a collection in stored order.
	Load(ctx context.Context, collection string) ([]Record, error)

	// Save replaces the whole collection with records.
	Save(ctx context.Context, collection string, records []Record) error

	// Update loads a collection, passes it to fn and saves fn's result while
	// holding the collection's lock. Nothing is saved if fn returns an error.
	Update(
		ctx context.Context,
		collection string,
		fn func(records []Record) ([]Record, error),
	) error
}
