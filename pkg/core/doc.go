// Package core defines the shared language of the recordkeep system.
//
// This package contains:
//   - Domain entities (Record, RecordList)
//   - Id generation strategies (IDGenerator)
//
// The Golden Rule: pkg/core imports ONLY stdlib and github.com/google/uuid.
// All other packages depend on core, not the reverse.
package core
