// Package lazy provides a retryable, once-guarded lazy initialization
// primitive for process-lifetime dependencies.
//
// It differs from sync.Once in one important way: a failed build does
// not mark the value as initialized. The failure is reported to every
// caller waiting on that attempt, and the next caller starts a fresh
// attempt. This is the behavior wanted for request-triggered bootstrap
// of shared handles (database pools, API clients) where a transient
// failure on the first request must not poison the process.
package lazy
