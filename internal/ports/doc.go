// Package ports defines the interfaces that connect the pipeline to the
// outside world.
//
// # Port Interfaces
//
//   - [Fetcher]: resolves a descriptor to the raw bytes of a JSON resource
//   - [Renderer]: writes formatted text into a named container
//   - [Projector]: appends presentation nodes to a named container
//   - [ErrorSurface]: collects human-readable failure lines for the page
//   - [Document], [Site]: rendered page serialization and site storage
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters (internal/adapters) implement them over the file system, HTTP and
// the HTML page tree, so the pipeline is testable without any page.
package ports
