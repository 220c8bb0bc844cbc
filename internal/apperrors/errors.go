package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrMethodNotAllowed indicates a request used a verb the query engine does not support.
var ErrMethodNotAllowed = errors.New("method not allowed")

// ErrStorageWrite indicates that persisting the document failed. The in-memory
// cache has already been updated by then, so the caller must decide whether to
// retry or invalidate.
var ErrStorageWrite = errors.New("storage write failed")

// ErrInvalidBackup indicates a restore payload is missing required collections.
var ErrInvalidBackup = errors.New("invalid backup data")

// ErrDriveNotConnected indicates a cloud backup operation was attempted
// before the Google Drive account was linked.
var ErrDriveNotConnected = errors.New("google drive not connected")

// ErrInternal indicates an unexpected failure inside the query engine.
var ErrInternal = errors.New("internal error")
