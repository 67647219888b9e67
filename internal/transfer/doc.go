// Package transfer moves one remote file's bytes to local storage.
//
// The primary strategy shells out to axel for multi-connection downloads with
// resume support; when it is missing or fails, an optional fallback streams
// the body over a plain HTTP GET. Both paths finish with the same existence
// and exact-size verification, and a local file that already matches the
// declared size short-circuits the transfer entirely. That check is what
// makes re-running a migration safe even without the ledger.
package transfer
