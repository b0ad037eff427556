// Package handler is the HTTP layer between the router and the services.
//
// Handlers bind and validate requests through the validation package, call
// the matching service and write its result as JSON. Errors are returned
// unchanged for the global error handler to translate.
package handler
