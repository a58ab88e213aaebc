package health

import "sync/atomic"

var ready atomic.Bool

func init() { ready.Store(true) }

// SetReady flips the readiness gate. Graceful shutdown sets it to false so
// load balancers stop routing to the instance before the listener closes.
func SetReady(ok bool) { ready.Store(ok) }

func accepting() bool { return ready.Load() }
