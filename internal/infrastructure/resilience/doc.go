/*
Package resilience guards best-effort side effects with a circuit breaker.

The workspace store mirrors in-memory tab state to a key-value backend after
every mutation. When the backend is down every mutation would otherwise pay
for a failing write and log the same error. The breaker stops calling the
backend after a run of consecutive failures and lets a single trial request through
once the cool-down has elapsed.

# States

	Closed --[threshold failures]-> Open --[cool-down]-> Half-Open --[success]-> Closed
	                                                        |
	                                                    [failure]
	                                                        v
	                                                      Open

# Usage

	breaker := resilience.New("kvstore", resilience.Settings{
		FailureThreshold: 5,
		CoolDown:         30 * time.Second,
	})

	err := breaker.Do(func() error {
		return backend.Set(ctx, key, data)
	})
*/
package resilience
