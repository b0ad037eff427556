// Package errs defines the application's error taxonomy.
//
// Every error that is allowed to reach an API client is an *HTTPError with
// a machine-checkable Code and a human-readable Message. Storage and other
// unexpected failures are converted into one of these at the repository
// boundary; the original cause stays attached for operators only.
package errs
