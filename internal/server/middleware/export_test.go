package middleware

import "time"

// SetNow подменяет часы лимитера в тестах.
func (rl *RateLimiter) SetNow(now func() time.Time) { rl.now = now }
