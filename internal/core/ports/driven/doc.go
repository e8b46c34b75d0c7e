// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ResumeStore: Resume and chunk persistence
//   - JobStore: Job persistence
//   - PageExtractor: Supplies extracted page text for a registered resume
//   - EmbeddingService: Maps text to deterministic unit vectors
//   - VectorIndex: Vector storage and nearest-neighbour search
//   - QueryCache: Memoizes ask-query results for a bounded window
//   - IdempotencyStore: Deduplicates create operations by caller key
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
