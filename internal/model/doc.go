// Package model defines the game entities emitted by the parser: jobs,
// attributes and skills.
//
// Every entity has a numeric ID and a symbolic name (the client's ClassID and
// ClassName); both are fixed once the entity is created. Cross references
// between entities are registry.Link values and serialize as the target's
// symbolic name. Link fields start empty and are only filled by the link
// phase of the pipeline.
package model
