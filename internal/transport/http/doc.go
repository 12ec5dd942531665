// Package http implements the HTTP request handlers for the fund reporting
// service. Handlers stay thin: they parse and validate the request, call the
// service layer, and render the response, leaving business rules to services.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Repository
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/report/date-missing",
//	    "title": "Report Date Missing",
//	    "status": 422,
//	    "detail": "the workbook contains no recognizable report date",
//	    "instance": "/api/upload"
//	}
//
// Handlers translate service sentinel errors to *errors.APIError and hand
// everything to the shared ErrorHandler for rendering.
//
// # Testing
//
// Handlers are tested with httptest servers and in-package service fakes.
package http
