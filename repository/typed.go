/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package repository

import (
	"context"

	"github.com/luandevpro/typeorm/driver"
)

// One loads the entity with the given primary key value into a fresh T.
// A missing row fails with NotFoundError.
func One[T any](ctx context.Context, r *Repository, key any) (*T, error) {
	row, err := r.FindOne(ctx, key)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := decode(row, out); err != nil {
		return nil, err
	}
	return out, nil
}

// All loads the entities matching the criteria; nil criteria loads the
// repository's whole entity set.
func All[T any](ctx context.Context, r *Repository, criteria driver.Row) ([]*T, error) {
	rows, err := r.Find(ctx, criteria)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		e := new(T)
		if err := decode(row, e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
