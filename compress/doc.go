// Package compress provides the byte-stream compressor backends consumed by
// the chunked framer.
//
// Every backend implements Backend: a deterministic, stateless block
// compressor with a small set of effort levels. Encoders and decoders that are
// expensive to construct are pooled so a single Backend value can serve
// concurrent block workers.
//
// # Backends
//
//   - none: copies input, useful for measuring filter and framing overhead
//   - zstd: github.com/klauspost/compress/zstd, or github.com/valyala/gozstd when
//     built with the gozstd tag
//   - s2: github.com/klauspost/compress/s2 block format
//   - lz4: github.com/pierrec/lz4/v4 raw block format, fast or HC
//
// Backends never frame their output; block lengths are recorded by the chunk
// package.
package compress
