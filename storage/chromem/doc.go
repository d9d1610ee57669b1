// Package chromem implements storage.VectorStore on top of chromem-go.
//
// Each chunk becomes one chromem document: the chunk text is the content,
// the chunk embedding is stored as given, and document metadata is flattened
// into string metadata so it can be filtered with exact-match where clauses.
package chromem
