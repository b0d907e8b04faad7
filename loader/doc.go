// Package loader fills the word-vector repository.
//
// Importer streams a pretrained word2vec model (text or binary format) into
// storage, reducing every word to the normalized form the embedding scorer
// looks up at query time. VocabularyEmbedder builds vectors for a plain word
// list through an ai.Embedder instead.
//
// Both write in batches on an ants worker pool, retry failed writes with
// exponential backoff, and report progress to an io.Writer.
package loader
