// Package scaffold sequences one scaffold run: validate the target, acquire
// the template into a scratch directory, strip its history, filter out
// development assets, materialize the instance, generate its configuration,
// and start fresh version-control history.
//
// The scratch directory is removed on every exit path. Failures are returned
// as *errors.DetailError values whose Outcome tells the caller whether a
// target directory may have been left behind.
package scaffold
