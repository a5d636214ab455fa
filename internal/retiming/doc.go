// Package retiming reconciles narrow, wrapping hardware counters with host time.
//
// A TimeBasis is created once per physical hardware clock and shared by
// pointer among every Retimer reading that clock. Exchange performs an
// unguarded read-modify-write on the basis: callers must serialize all
// Exchange calls against one basis (a single decoding goroutine, or a mutex
// held by the owner as internal/device does).
package retiming
