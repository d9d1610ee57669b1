// Package chunking turns documents into embedded chunks with candidate questions.
//
// Text is split with langchaingo's recursive character splitter, measuring
// length in approximate tokens (four characters each). Every chunk gets up to
// N questions from an ai.QuestionExtractor; extraction calls run on a bounded
// ants worker pool. Chunk and question texts are then embedded in one batched
// call each.
package chunking
