// Package cache stores rendered documents so that repeated conversions of the
// same transcription skip the pipeline. It has an in-memory LRU level (L1)
// and a persistent zstd-compressed disk level (L2).
package cache
