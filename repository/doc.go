/*
Package repository implements the persistence operations of one entity
type over the connection's driver.

A Repository is not constructed directly; the connection creates one
for every registered metadata and pairs it with a broadcaster holding
the subscribers known at that moment. Writes fire before and after
lifecycle events around the driver call, and a before hook returning
an error vetoes the write entirely.

The core API is untyped and exchanges driver.Row values. The generic
helpers One and All layer type-safe loading on top:

	repo, err := conn.GetRepository("User")
	if err != nil {
		return err
	}
	u, err := repository.One[User](ctx, repo, id)

Loading a key with no stored row fails with errors.NotFoundError. Find
and All take a criteria row matched as an equality conjunction; the
criteria pass to the driver untouched, so what a criteria column may
reference is a driver concern.

Entities are flattened to rows by their json struct tags. A generated
string primary key left empty on Insert is filled with a fresh UUID and
written back to the caller's entity.
*/
package repository
