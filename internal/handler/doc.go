// Package handler serves the bridge over HTTP.
//
// Routes are mounted on a chi router:
//
//	POST /api/assets                       upload a network file
//	GET  /api/assets/{hash}                asset or artifact metadata
//	GET  /api/assets/{hash}/content        asset content
//	GET  /api/assets/{hash}/files/{name}   one file of an artifact
//	POST /api/export?node=&format=         run the export plugin
//	POST /api/import?node=&networkFile=    run the import plugin
//	GET  /api/networks                     list Networks
//	GET  /api/networks/{path}              edge list of one Network
//	GET  /api/events                       run events as Server-Sent Events
//	GET  /metrics                          Prometheus metrics
//
// Plugin runs answer with the run result, also when the run failed; the
// status code tells failures apart. Other errors are returned as JSON with
// an {error, details} body.
package handler
