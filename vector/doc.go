// Package vector provides the pure embedding math used across this project:
// cosine similarity and L2 distance over float32 vectors, plus the BLOB
// encoding used to persist embeddings in SQL storage.
package vector
