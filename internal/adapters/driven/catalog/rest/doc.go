// Package rest implements the catalog ports against the catalog's REST API.
//
// Reads go through named queries that answer {"records": [...]}. Writes are
// CREATE_LOAD_AND_SUBMIT loads posted to the load path; their status is read
// from {load path}/{loadId}. Every request carries the API-Key header and
// waits on a client-side token bucket.
package rest
