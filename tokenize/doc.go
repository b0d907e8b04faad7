// Package tokenize turns free-form text into the word sequences that topic
// matching slides over.
//
// The same Tokenizer must be applied to both the text and the topic so that
// window positions line up token for token.
package tokenize
