// Package domain defines the core business entities for Docquery.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: One ingested source file and how its text was extracted
//   - Paragraph: A segmented unit of document text, the retrieval atom
//   - QueryLog / FragmentUsed: A recorded question and its provenance
//   - Strategy: The paragraph segmentation algorithm identifier
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
