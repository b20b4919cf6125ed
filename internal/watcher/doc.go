// Package watcher drives an acplug stream on behalf of the daemon: it keeps
// the current adapter state readable for the HTTP layer, fans events out to
// subscribers, and reconnects with backoff when a stream ends. Reconnection
// lives here, not in pkg/acplug — the stream itself is single-shot and the
// caller decides whether to build a new one.
package watcher
