// Package mongodb provides MongoDB connectivity for the Movie API.
//
// MongoDB is the default document store: users and movies live in the
// "users" and "movies" collections of the configured database.
//
// This package manages:
//   - Client construction from a connection URI
//   - Connectivity verification (ping against the primary)
//   - Unique indexes the repositories rely on
//   - Graceful disconnect
//
// Usage:
//
//	store, err := mongodb.Connect(ctx, cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close(context.Background())
//
//	if err := store.EnsureIndexes(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	users := store.Collection(mongodb.CollectionUsers)
package mongodb
