package gate

import (
	"time"

	"github.com/slconnect/safeguard/internal/audit"
	"github.com/slconnect/safeguard/internal/model"
)

// SetFlag toggles an existing safety flag. Unknown names are ignored:
// the flag table's structure is fixed at construction.
func (g *Gate) SetFlag(name string, enabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	f, ok := g.flags[name]
	if !ok {
		return
	}
	f.Enabled = enabled
	g.flags[name] = f
}

// Flag returns the named safety flag and whether it exists.
func (g *Gate) Flag(name string) (model.SafetyFlag, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f, ok := g.flags[name]
	return f, ok
}

// Flags returns a snapshot of the flag table.
func (g *Gate) Flags() map[string]model.SafetyFlag {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]model.SafetyFlag, len(g.flags))
	for name, f := range g.flags {
		out[name] = f
	}
	return out
}

// CheckInvariants reports whether every safety flag is currently enabled,
// warn-logging each disabled flag found. As a deliberate observability
// side effect it stamps every flag's LastChecked with the current time,
// so frequent callers continuously refresh the timestamps.
func (g *Gate) CheckInvariants() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UTC()
	allSafe := true
	for name, f := range g.flags {
		if !f.Enabled {
			allSafe = false
			g.logger.Warn("safety invariant disabled", "flag", name, "kind", f.Kind)
			g.record(audit.Entry{
				Event:  audit.EventInvariantFailure,
				Detail: "flag disabled: " + name,
			})
		}
		f.LastChecked = now
		g.flags[name] = f
	}

	return allSafe
}
