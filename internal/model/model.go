// Package model holds the entities the API persists and the request payloads
// that create and modify them.
package model
