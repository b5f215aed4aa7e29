// Package sessionlock serializes dispatches per session id.
package sessionlock

// Option applies a configuration option to the registry.
type Option func(*registry)

// WithCapacity sets the number of idle lock entries retained for reuse.
// If capacity <= 0 the registry never drops idle entries.
func WithCapacity(capacity int) Option {
	return func(r *registry) {
		r.capacity = capacity
	}
}
