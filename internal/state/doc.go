// Package state binds content operations to observable {data, loading, error}
// state with last-issued-wins semantics.
//
// Every hook instance owns a generation counter. Each activation bumps it, and a
// fetch result is applied only if its generation is still current and the hook
// has not been closed. Late results are dropped silently. Fetchers receive a
// context that is cancelled when the hook is closed; superseded fetches are not
// cancelled, their results are just discarded.
package state
