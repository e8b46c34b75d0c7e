// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - ResumeStore: Resume and chunk persistence
//   - JobStore: Job persistence
//   - IdempotencyStore: Create-operation deduplication records
//   - QueryCache: Ask-query result cache
//
// Chunk embeddings are stored as little-endian float32 blobs alongside the
// chunk text, so the in-memory vector index can be rebuilt from this store
// at startup via ReindexInto.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.resumatch/data/resumatch.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode; idempotency claims additionally run inside immediate
// transactions so concurrent Begin calls serialize.
package sqlite
