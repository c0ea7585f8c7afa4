// Package session owns the authenticated session: credential lifecycle,
// reactive auth state, and synchronization with the credential store.
//
// The Manager is the single writer of both the in-memory session and the
// durable store. Within one action the ordering is fixed: memory mutation,
// then store mirror, then subscriber notification, then the action returns.
// A subscriber observing "authenticated" can rely on the store already
// being consistent.
package session
