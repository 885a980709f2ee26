/*
Package resilience provides a circuit breaker for store writes.

When the backing store keeps failing, the breaker rejects writes with
ErrCircuitOpen instead of hammering it, so snapshot flushes fail fast and
keep their pending value for the next attempt.

# Usage

	breaker := resilience.New("store", resilience.Settings{
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("circuit breaker state change", zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})

	err := breaker.Do(ctx, func(ctx context.Context) error {
		return store.Set(ctx, key, value)
	})

# States

	Closed --[threshold failures]-> Open --[cooldown]-> Half-Open --[probe ok]-> Closed
	                                                        |
	                                                 [probe failed]
	                                                        v
	                                                      Open
*/
package resilience
