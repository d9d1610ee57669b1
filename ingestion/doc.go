// Package ingestion drives incremental document ingestion for a chain.
//
// For every document the Ingester reads the source cursor, keeps only the
// lines after it, and skips documents with too few new lines. The remaining
// documents are chunked in one call. Each question that carries an embedding
// is checked for near-duplicates against the chain's stored questions and the
// questions accepted earlier in the same call; survivors are classified into
// a topic and saved immediately. All chunks are then upserted into the vector
// store and, only after that succeeds, each cursor is advanced by the number
// of newlines processed.
//
// Failures abort the call. Questions saved before the failure stay saved.
package ingestion
