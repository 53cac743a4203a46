package models

import "errors"

// ErrValidation marks a missing or malformed value that blocks an action.
var ErrValidation = errors.New("validation error")

// ErrLookup marks an operation on something that does not exist: an unknown
// session, an out-of-range item index or a missing document surface.
var ErrLookup = errors.New("lookup error")

// ErrExport marks a failure inside the PDF export pipeline.
var ErrExport = errors.New("export error")
