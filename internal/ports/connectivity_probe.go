package ports

// Reports current network reachability. Consulted before any remote call so
// an offline caller fails fast instead of burning retry attempts.
type ConnectivityProbe interface {
	// IsOnline is synchronous and has no side effects.
	IsOnline() bool
}
