/*
Package typeorm maps annotated Go structs to storage backends through a
connection-scoped registry of entity metadata, repositories, and
lifecycle subscribers.

A Connection owns exactly one driver session and the collections mapped
over it. Metadata describes how an entity type is persisted; for every
registered metadata the connection builds a repository bound to a
broadcaster that fans lifecycle events out to the subscribers known at
registration time. Registration is append-only: entries are never
replaced or removed for the connection's lifetime.

Key features:
  - Append-only registry with target-token lookups
  - Pluggable storage drivers (PostgreSQL, DynamoDB, in-memory mock)
  - Entity lifecycle events with veto support in before hooks
  - Optional automatic schema creation on connect
  - Type-safe loading helpers built on Go generics
  - Semantic error types for precise error handling

Basic usage:

	drv, err := driver.New("postgres")
	if err != nil {
		return err
	}
	conn := typeorm.New(drv)

	err = conn.AddMetadatas(&metadata.EntityMetadata{
		Target: "User",
		Table:  "users",
		Columns: []*metadata.ColumnMetadata{
			{Name: "id", Type: metadata.TypeString, Primary: true, Generated: true},
			{Name: "email", Type: metadata.TypeString, Unique: true},
		},
	})
	if err != nil {
		return err
	}

	err = conn.Connect(ctx, &driver.Options{
		Type:             "postgres",
		DSN:              dsn,
		AutoSchemaCreate: true,
	})
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	repo, _ := conn.GetRepository("User")
	u := &User{Email: "ann@example.com"}
	if err := repo.Insert(ctx, u); err != nil {
		return err
	}

For more information, see the documentation at https://github.com/luandevpro/typeorm
*/
package typeorm
