// Package domain holds the core types shared between the session manager,
// the API gateway client, and the credential store.
//
// Types mirror the server's wire representation: User, Product, AuthResult,
// and the request payloads for the auth and catalog endpoints.
package domain
