// Package httpapi exposes the scan and analysis services over a JSON HTTP
// API built on echo. It is the backend the browser extension talks to.
//
// Routes:
//
//	GET    /                banner
//	GET    /healthz         liveness
//	GET    /metrics         Prometheus scrape endpoint
//	POST   /analyze         summary, cached per URL
//	POST   /chat            grounded question answering
//	GET    /status?url=     cache state of one URL
//	GET    /scans           every scan record
//	DELETE /cache           clear scan records (?purge_index=true drops indexes)
//	POST   /risks           risk report
//	POST   /permissions     device permission mapping
//	POST   /hidden-clauses  hidden clause report
//	POST   /full-analysis   summary plus every report
package httpapi
