/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrMetadataNotFound is returned when no metadata is registered for a target
	ErrMetadataNotFound = errors.New("metadata not found")

	// ErrRepositoryNotFound is returned when no repository is registered for a target
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrBroadcasterNotFound is returned when no broadcaster is registered for a target
	ErrBroadcasterNotFound = errors.New("broadcaster not found")

	// ErrDuplicateMetadata is returned when registering a target that already has metadata
	ErrDuplicateMetadata = errors.New("metadata already registered")

	// ErrConnection is returned when the driver session cannot be established or torn down
	ErrConnection = errors.New("connection failed")

	// ErrAlreadyConnected is returned when connecting an already-connected registry
	ErrAlreadyConnected = errors.New("already connected")

	// ErrNotConnected is returned when closing a registry with no live session
	ErrNotConnected = errors.New("not connected")

	// ErrNotFound is returned when an entity row is not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// MetadataNotFoundError represents a lookup for a target with no registered metadata
type MetadataNotFoundError struct {
	Target string
}

func (e *MetadataNotFoundError) Error() string {
	return fmt.Sprintf("no metadata registered for target %q", e.Target)
}

func (e *MetadataNotFoundError) Is(target error) bool {
	return target == ErrMetadataNotFound
}

// RepositoryNotFoundError represents a lookup for a target with no repository pair
type RepositoryNotFoundError struct {
	Target string
}

func (e *RepositoryNotFoundError) Error() string {
	return fmt.Sprintf("no repository registered for target %q", e.Target)
}

func (e *RepositoryNotFoundError) Is(target error) bool {
	return target == ErrRepositoryNotFound
}

// BroadcasterNotFoundError represents a lookup for a target with no broadcaster
type BroadcasterNotFoundError struct {
	Target string
}

func (e *BroadcasterNotFoundError) Error() string {
	return fmt.Sprintf("no broadcaster registered for target %q", e.Target)
}

func (e *BroadcasterNotFoundError) Is(target error) bool {
	return target == ErrBroadcasterNotFound
}

// DuplicateMetadataError represents a registration for a target that already has metadata
type DuplicateMetadataError struct {
	Target string
}

func (e *DuplicateMetadataError) Error() string {
	return fmt.Sprintf("metadata for target %q already registered", e.Target)
}

func (e *DuplicateMetadataError) Is(target error) bool {
	return target == ErrDuplicateMetadata
}

// ConnectionError represents a failed driver session operation
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection %s failed: %v", e.Op, e.Err)
}

func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NotFoundError represents an error when an entity row is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewMetadataNotFoundError creates a new MetadataNotFoundError
func NewMetadataNotFoundError(target string) error {
	return &MetadataNotFoundError{Target: target}
}

// NewRepositoryNotFoundError creates a new RepositoryNotFoundError
func NewRepositoryNotFoundError(target string) error {
	return &RepositoryNotFoundError{Target: target}
}

// NewBroadcasterNotFoundError creates a new BroadcasterNotFoundError
func NewBroadcasterNotFoundError(target string) error {
	return &BroadcasterNotFoundError{Target: target}
}

// NewDuplicateMetadataError creates a new DuplicateMetadataError
func NewDuplicateMetadataError(target string) error {
	return &DuplicateMetadataError{Target: target}
}

// NewConnectionError creates a new ConnectionError wrapping a driver failure
func NewConnectionError(op string, err error) error {
	return &ConnectionError{Op: op, Err: err}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsMetadataNotFound checks if an error is a metadata not found error
func IsMetadataNotFound(err error) bool {
	return errors.Is(err, ErrMetadataNotFound)
}

// IsRepositoryNotFound checks if an error is a repository not found error
func IsRepositoryNotFound(err error) bool {
	return errors.Is(err, ErrRepositoryNotFound)
}

// IsBroadcasterNotFound checks if an error is a broadcaster not found error
func IsBroadcasterNotFound(err error) bool {
	return errors.Is(err, ErrBroadcasterNotFound)
}

// IsDuplicateMetadata checks if an error is a duplicate metadata error
func IsDuplicateMetadata(err error) bool {
	return errors.Is(err, ErrDuplicateMetadata)
}

// IsConnection checks if an error is a connection error
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsNotConnected checks if an error indicates an operation on a closed connection
func IsNotConnected(err error) bool {
	return errors.Is(err, ErrNotConnected)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
