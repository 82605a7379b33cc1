// Package server exposes the employee, project, task and file operations
// over HTTP. It owns routing, request decoding and validation, the mapping
// of store errors to status codes, upload streaming into a
// filestore.Backend, and the operational endpoints (/health, /ready,
// /live, /metrics). Persistence is reached only through Repository.
package server
