// Package processor runs pixel encryption jobs over bitmap files.
// Jobs run concurrently; each job reads the source, transforms its payload through the
// partitioning pipeline and writes the output atomically, optionally recording it in a result store.
package processor
