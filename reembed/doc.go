// Package reembed recomputes the embeddings of stored questions, typically
// after switching embedding models. Questions of a chain are processed in
// batches with one embedding call per batch, and progress is reported to a
// writer as batches complete.
package reembed
