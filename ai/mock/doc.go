// Package mock provides test double implementations of AI service interfaces.
//
// # Usage in Tests
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	count := embedder.CallCount()
//
// Without injected functions, MockEmbedder returns deterministic unit vectors
// derived from an FNV hash of the text.
package mock
