// Package naming derives output file paths when the user does not give one.
package naming
