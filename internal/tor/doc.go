// Package tor provides optional Tor routing for search and snapshot
// traffic.
//
// Dork queries and the page fetches they trigger are exactly the kind
// of traffic an operator may not want attributable to their own
// address. This package wraps a SOCKS5 dialer around the Tor proxy and
// hands out HTTP clients that route through it, plus an embedded
// daemon (via tornago) for hosts without a system Tor installation.
//
// The package is designed for dependency injection: create a Client
// and pass its HTTP client to the components that need routing, rather
// than flipping global state.
package tor
