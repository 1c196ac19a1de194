// Package server serves the course paper over HTTP.
//
// Routes:
//
//	GET  /                        the paper page
//	GET  /diagrams/{name}.{ext}   one figure (svg, png, dot or json)
//	GET  /export                  export the page, redirect to its download
//	POST /export                  export posted HTML the same way
//	GET  /downloads/{id}          serve an export once, then forget it
//	GET  /healthz                 liveness
//	GET  /metrics                 Prometheus metrics
//
// Exports follow the object-URL pattern: the export handler stores the
// document in a [blob.Registry] and answers 303 See Other with the download
// URL, and the download handler revokes the id as it serves it. A page
// without the export container exports nothing and gets 204 No Content.
//
// Rendered figures are cached through [cache.Cache] under keys that include
// the build version, so the memory, file and Redis backends all work.
package server
