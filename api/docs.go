// Package api holds the OpenAPI document served by the Swagger UI.
package api

import _ "embed"

// OpenAPI is the OpenAPI 3 description of the HTTP API.
//
//go:embed openapi.json
var OpenAPI []byte
