// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It adapts the study service, the document upload
// path and the chat relay to JSON and server-sent events.
package api
