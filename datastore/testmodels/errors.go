/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package testmodels

import "github.com/suparena/entityext/errors"

func errRequired(field string) error {
	return errors.NewValidationError(field, "is required")
}

func errFormat(field, format string) error {
	return errors.NewValidationError(field, "must be of format "+format)
}
