/*
Package metadata describes the persisted shape of mapped entity types.

Every entity type a connection manages is identified by a Target token,
a stable string chosen by the caller. EntityMetadata binds a target to
its table name, column definitions, and optional driver-specific index
templates. The same metadata value that is registered with a connection
is handed to its repository and its drivers, so instances must not be
mutated after registration.

Metadata can be constructed directly:

	m := &metadata.EntityMetadata{
		Target: "User",
		Table:  "users",
		Columns: []*metadata.ColumnMetadata{
			{Name: "id", Type: metadata.TypeString, Primary: true, Generated: true},
			{Name: "email", Type: metadata.TypeString, Unique: true},
			{Name: "created_at", Type: metadata.TypeTimestamp},
		},
	}

or loaded from a YAML definitions document with Load or LoadFile:

	entities:
	  - name: User
	    table: users
	    columns:
	      - {name: id, type: string, primary: true, generated: true}
	      - {name: email, type: string, unique: true}
	      - {name: created_at, type: timestamp}

Validate rejects incomplete definitions before they reach a connection:
missing targets or tables, empty column sets, duplicate or untyped
columns, and more than one primary column.
*/
package metadata
