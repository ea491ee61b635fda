package custom_errors

import "errors"

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrPostValidation = errors.New("post validation failed")

	ErrDatabaseQuery = errors.New("database query failed")
	ErrDatabaseScan  = errors.New("database scan failed")

	ErrCacheMiss = errors.New("cache miss")

	ErrUnsupportedDatabase = errors.New("unsupported database url")
)
