// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structure for the HTTP listener: port, API key and
// request body limit.
package server
