// Package auth holds the stateless credential primitives: password hashing
// and the signed token codec. Both are safe for concurrent use.
package auth
