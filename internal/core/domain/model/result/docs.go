// Package result holds lab results and the read-only test definitions they
// are interpreted against.
package result
