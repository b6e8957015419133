// Package http implements the chi handlers of the dashboard API. Handlers
// stay thin: they parse and validate the request, call a service and
// render the result. Service errors are translated into RFC 7807 problem
// documents through the shared ErrorHandler.
//
// # Routes
//
//	GET  /api/views/choropleth?year=Y
//	GET  /api/views/sectors
//	GET  /api/views/countries?top_n=N
//	GET  /api/views/top-emitters
//	GET  /api/views/co2-gdp
//	GET  /api/views/forecast?country=C
//	GET  /api/countries
//	GET  /api/years
//	GET  /api/navigation
//	PUT  /api/navigation            {"tab": "..."}
//	GET  /api/export/{view}.{csv|xlsx}
//	GET  /api/charts/{view}.{png|svg}
//	POST /api/logs
//	GET  /api/health, /api/health/ready, /api/health/live, /api/version
//
// Every handler depends on a small interface rather than a concrete
// service so tests can drive it with testify mocks.
package http
