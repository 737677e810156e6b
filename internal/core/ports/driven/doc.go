// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ExtractionService: Recovers text from source documents (Tika)
//   - DocumentStore: Document persistence
//   - ParagraphStore: Paragraph and embedding persistence
//   - QueryLogStore: Question/answer audit trail persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil for commands that do not need them:
//
//   - EmbeddingService: Generates vector embeddings. Required by the
//     embed and ask commands only.
//   - LLMService: Drafts answers from retrieved context. Required by
//     the ask command only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
