/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entityext

import (
	"context"
	"fmt"

	"github.com/suparena/entityext/storagemodels"
)

// FindOwner is Extension.FindBy with the owner asserted to O, for callers
// that know which Go type their engine resolves owners to.
func FindOwner[O any](ctx context.Context, e *Extension, m *Model, filter Options) (O, error) {
	var zero O
	owner, err := e.FindBy(ctx, m, filter)
	if err != nil {
		return zero, err
	}
	typed, ok := owner.(O)
	if !ok {
		return zero, fmt.Errorf("%s: owner is %T, not %T", e.names.FindBy, owner, zero)
	}
	return typed, nil
}

// RecordsOf flattens the result of a generated find method.
func RecordsOf(result any) ([]*storagemodels.Record, error) {
	recs, ok := result.([]*storagemodels.Record)
	if !ok && result != nil {
		return nil, fmt.Errorf("unexpected find result %T", result)
	}
	return recs, nil
}
