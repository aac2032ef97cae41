// Package eval measures how far a reconstructed record buffer is from the
// source it was encoded from.
//
// Compare reports the mean and maximum absolute error per channel, grouped
// summaries for position, rotation, scale, color and opacity, and the
// angular error between orientation quaternions. VerifyBytes checks that a
// lossless stage reproduced its input exactly.
package eval
