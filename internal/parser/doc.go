// Package parser turns the client's tables into entities.
//
// Every entity type has a parser with two phases. ParsePrimary reads the
// type's own tables and registers entities with their scalar fields set and
// their link fields empty. ParseLinks runs after every type's ParsePrimary
// has finished and fills link fields by looking up other registries. The
// pipeline package runs the phases in a fixed order.
package parser
