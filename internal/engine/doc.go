// Package engine holds the pure menu customization rules: resolving a
// dish's effective modifier schema, pricing a selection against it, and
// validating a selection. Nothing here performs I/O or mutates its inputs,
// so every function is safe to call concurrently.
package engine
