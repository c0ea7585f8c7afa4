// Package api implements the gateway client, the single component issuing
// outbound HTTP calls against the storefront API.
//
// Every call is normalized into a Result: either the decoded payload or a
// CallError carrying the server's message and optional field details. The
// client caches one access token for bearer injection; the session manager
// is its sole writer.
package api
