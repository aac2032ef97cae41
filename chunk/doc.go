// Package chunk implements the block framer that sits between the packed
// record buffer and a compress.Backend.
//
// A buffer is split into blocks of whole records, each block is passed
// through a filter.Filter and compressed independently, and the compressed
// blocks are written with uint32 little-endian length prefixes. If framing
// does not pay off the frame degrades to a zero prefix plus the input bytes,
// so a frame is never more than four bytes larger than its input.
//
// Block work can be spread across goroutines with WithConcurrency; the frame
// bytes are identical to sequential encoding.
package chunk
