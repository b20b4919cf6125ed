package httpapi

import "context"

// serverBaseCtx is the process-lifetime context handlers watch for shutdown,
// Background until main installs one.
var serverBaseCtx = context.Background()

// SetBaseContext installs the process-lifetime context. Nil resets to
// Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	serverBaseCtx = ctx
}

// joinContexts derives a context that ends as soon as either parent does.
// The cancel func must be called when the handler returns so the watching
// goroutine is released.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	joined, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		select {
		case <-a.Done():
		case <-b.Done():
		}
	}()
	return joined, cancel
}
