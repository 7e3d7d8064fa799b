// Package utils contains small shared helpers with no dependencies on the
// rest of the application.
//
//   - Slugify: maps free-text variant titles to storage-safe object names.
//   - ToInt: lenient conversion of loosely-typed values (route params, DB
//     scan results) to int.
package utils
