// Package credstore provides durable key-value storage for session credentials.
//
// Three backends implement the Store interface: a JSON file (the durable
// default), an in-memory map (tests, ephemeral runs), and Redis (shared
// deployments). The session manager is the sole writer of the store.
package credstore
