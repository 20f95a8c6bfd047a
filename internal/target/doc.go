// Package target turns the user's raw name-or-path argument into a canonical,
// safe instance location. It is a pure check plus one existence lookup: nothing
// on disk is touched.
package target
