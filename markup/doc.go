// Package markup renders a tagged token stream as inline bracketed markup.
//
// Entity merges runs of tokens with the same entity id pair into one span,
// POS tags every token on its own, and Sentiment merges runs of tokens
// with the same sentiment classification and wraps polar sentences. All
// three put a space before each token unless the token is post-fixed.
package markup
