/*
Package errors provides semantic error types for the typeorm library.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrMetadataNotFound    = errors.New("metadata not found")
	    ErrRepositoryNotFound  = errors.New("repository not found")
	    ErrBroadcasterNotFound = errors.New("broadcaster not found")
	    ErrDuplicateMetadata   = errors.New("metadata already registered")
	    ErrConnection          = errors.New("connection failed")
	    ErrNotFound            = errors.New("entity not found")
	    ErrInvalidInput        = errors.New("invalid input")
	)

Usage:

	// Check error type
	repo, err := conn.GetRepository("User")
	if err != nil {
	    if errors.IsRepositoryNotFound(err) {
	        // Handle unregistered entity type
	        return fmt.Errorf("entity %q was never registered", "User")
	    }
	    return err
	}

	// Create typed errors
	err := errors.NewMetadataNotFoundError("User")
	err := errors.NewConnectionError("connect", driverErr)
	err := errors.NewValidationError("table", "must not be empty")

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
