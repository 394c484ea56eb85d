// Package domain contains the core entities and error taxonomy of dugout.
//
// This package is the innermost layer. It has no dependencies on the page
// model, the network, or logging, and holds only the values the pipeline
// passes between its stages.
//
// # Entities
//
//   - [Descriptor]: identifier of one JSON resource to fetch
//   - [Node]: a presentation node appended by record projection
//
// # Errors
//
// Every failure the pipeline reports is one of [ResolutionError],
// [ParseError], [RoutingMiss] or [RenderTargetMissing]. Each unwraps to a
// sentinel so callers can classify with errors.Is.
package domain
