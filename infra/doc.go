// Package infra contains technical adapters: route and station file
// importers, metrics sinks and the logger implementation. These packages
// depend only on the types and interfaces defined in the core packages.
package infra
