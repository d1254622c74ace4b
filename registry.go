package depict

import "sync"

var (
	renderers   = make(map[string]Renderer)
	renderersMu sync.RWMutex
)

// Register makes a renderer available to Encode under its Format name.
// Registering the same format again replaces the earlier renderer.
func Register(r Renderer) {
	renderersMu.Lock()
	defer renderersMu.Unlock()
	renderers[r.Format()] = r
}

// lookupRenderer returns the renderer registered for format.
func lookupRenderer(format string) (Renderer, bool) {
	renderersMu.RLock()
	defer renderersMu.RUnlock()
	r, ok := renderers[format]
	return r, ok
}

// Formats returns the registered format names, order unspecified.
func Formats() []string {
	renderersMu.RLock()
	defer renderersMu.RUnlock()
	out := make([]string, 0, len(renderers))
	for name := range renderers {
		out = append(out, name)
	}
	return out
}

// Reset clears the renderer registry.
// This is primarily useful for test isolation.
func Reset() {
	renderersMu.Lock()
	defer renderersMu.Unlock()
	renderers = make(map[string]Renderer)
}
