/*
Package errors provides semantic error types for entityext.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound        = errors.New("entity not found")
	    ErrAlreadyExists   = errors.New("entity already exists")
	    ErrInvalidInput    = errors.New("invalid input")
	    ErrConfig          = errors.New("invalid extension configuration")
	    ErrDuplicateMethod = errors.New("duplicate method name")
	    ErrNoIndexMap      = errors.New("no index map found for type")
	)

Usage:

	// Configuration errors surface from Attach
	ext, err := entityext.Attach(schema, entityext.Config{})
	if errors.IsConfigError(err) {
	    // table name missing
	}

	// Persistence errors surface from the generated methods
	owner, err := model.Call(ctx, "findByBadge", entityext.Options{"level": 3})
	if errors.IsNotFound(err) {
	    // no matching record or the owner is gone
	}

	// Create typed errors
	err := errors.NewNotFoundError("badge", "123")
	err := errors.NewValidationError("email", "invalid format")
	err := errors.NewDuplicateMethodError("User", "static", "findBadge")

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors