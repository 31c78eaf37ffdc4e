// Package domain contains the core value types shared across the analysis
// pipeline. Everything here is a plain value produced by pure transformations
// of the message stream; nothing holds mutable shared state.
package domain
