// Package api embeds the OpenAPI document of the REST interface.
package api

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
