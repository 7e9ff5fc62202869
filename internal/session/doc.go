// Package session owns the portal's notion of "who is logged in".
//
// Store is a thin adapter over any durable key-value map (KV) that mirrors the
// current session across process restarts. Container is the in-memory,
// observable source of truth; it is the only writer of the Store and heals
// any partial state it finds there back to Anonymous.
package session
