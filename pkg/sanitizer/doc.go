// Package sanitizer provides input normalization applied before validation and storage.
//
// All normalization functions are idempotent: applying them twice gives the same
// result as applying them once. Invalid input yields empty strings or slices
// rather than errors; validation is left to the caller.
//
// Normalization includes:
//   - Strings: collapse whitespace, trim leading/trailing spaces
//   - URLs: enforce HTTPS, lowercase domains, preserve paths
//   - Slices: drop duplicates and empty values after normalization, keeping first-seen order
package sanitizer
