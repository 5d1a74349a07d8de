// Package pipeline partitions a payload across workers, transforms each partition with
// AES-128 in ECB or CBC mode and reassembles the result, carrying unaligned tail bytes through.
// Keys are 16 bytes; shorter input is zero-padded and longer input is truncated.
package pipeline
