// Package testutil contains helper builders and utilities used across tests
// to reduce boilerplate when constructing domain fixtures (market tables,
// travel-time matrices) and asserting agent behaviors. These helpers are
// intentionally minimal and avoid adding third-party dependencies. They are
// not intended for production usage.
package testutil
