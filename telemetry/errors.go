package telemetry

import "errors"

// errMissingHeader signals a payload whose first row does not carry the entity id column
var errMissingHeader = errors.New("tabular payload is missing the entity_id header")
