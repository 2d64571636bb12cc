// Package gate implements the process-wide safety gate: authorization
// state, named safety flags, restricted-topic content filtering, and
// per-user violation counting. One gate instance is constructed at
// startup and passed by handle to every consumer.
package gate

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/slconnect/safeguard/internal/audit"
	"github.com/slconnect/safeguard/internal/model"
	"github.com/slconnect/safeguard/internal/topics"
)

// EscalationThreshold is the violation count at which the gate emits its
// escalation notice. Crossing it takes no automated enforcement action;
// punitive behavior belongs to the pluggable EscalationFunc.
const EscalationThreshold = 3

// EscalationFunc is called once when a user's violation count reaches the
// threshold. The gate holds its lock while calling it; implementations
// must not call back into the gate.
type EscalationFunc func(userID string, count int)

// Gate is the single source of truth for user authorization, safety flag
// state, and content boundaries. All operations are infallible: no I/O,
// no error returns.
type Gate struct {
	mu         sync.RWMutex
	flags      map[string]model.SafetyFlag
	authorized map[string]bool
	violations map[string]int
	restricted *topics.Set
	onEscalate EscalationFunc
	auditLog   *audit.Log
	logger     *slog.Logger
}

// Option configures a Gate at construction.
type Option func(*Gate)

// WithTopics replaces the built-in restricted topic set.
func WithTopics(s *topics.Set) Option {
	return func(g *Gate) { g.restricted = s }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) { g.logger = l }
}

// WithEscalationFunc installs the hook fired when a user reaches the
// violation threshold.
func WithEscalationFunc(fn EscalationFunc) Option {
	return func(g *Gate) { g.onEscalate = fn }
}

// WithAuditLog makes the gate record authorization changes, violations,
// and escalations to the hash-chained audit log. Audit write failures are
// logged and swallowed; the gate itself never fails.
func WithAuditLog(l *audit.Log) Option {
	return func(g *Gate) { g.auditLog = l }
}

// New creates a Gate with the four built-in safety flags enabled and the
// default restricted topic set. The flag table's structure is fixed for
// the life of the gate; only flag values change afterwards.
func New(opts ...Option) *Gate {
	now := time.Now().UTC()
	g := &Gate{
		flags: map[string]model.SafetyFlag{
			"preventSelfReplication":    {Kind: model.KindSecurity, Enabled: true, LastChecked: now},
			"preventUnauthorizedAccess": {Kind: model.KindSecurity, Enabled: true, LastChecked: now},
			"preventResourceAbuse":      {Kind: model.KindPerformance, Enabled: true, LastChecked: now},
			"enforceBoundaries":         {Kind: model.KindAccess, Enabled: true, LastChecked: now},
		},
		authorized: make(map[string]bool),
		violations: make(map[string]int),
		restricted: topics.NewDefault(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetTopics swaps in a replacement restricted topic set, for operator-
// driven hot reload. Individual sets are immutable; the gate only ever
// exchanges whole sets under its lock.
func (g *Gate) SetTopics(s *topics.Set) {
	if s == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.restricted = s
}

// Authorize grants userID unrestricted content access. Idempotent; takes
// effect on the next IsAuthorized call.
func (g *Gate) Authorize(userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.authorized[userID] {
		return
	}
	g.authorized[userID] = true
	g.record(audit.Entry{Event: audit.EventUserAuthorized, UserID: userID})
}

// Seed restores previously granted users without emitting audit entries.
// Used at startup to rebuild in-memory state from a durable grant store.
func (g *Gate) Seed(userIDs ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range userIDs {
		g.authorized[id] = true
	}
}

// Revoke removes userID from the authorized set. Idempotent.
func (g *Gate) Revoke(userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.authorized[userID] {
		return
	}
	delete(g.authorized, userID)
	g.record(audit.Entry{Event: audit.EventUserRevoked, UserID: userID})
}

// IsAuthorized reports whether userID has elevated access.
// Unknown users are not authorized.
func (g *Gate) IsAuthorized(userID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.authorized[userID]
}

// ContentAllowed reports whether content is permitted for userID.
// Authorized users bypass filtering entirely and are never counted.
// For everyone else, a single case-insensitive restricted-phrase hit
// rejects the content and increments the user's violation counter;
// reaching the threshold emits the escalation notice exactly once.
func (g *Gate) ContentAllowed(content, userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.authorized[userID] {
		return true
	}

	phrase, hit := g.restricted.Match(content)
	if !hit {
		return true
	}

	g.violations[userID]++
	count := g.violations[userID]
	g.logger.Warn("content boundary violation",
		"user_id", userID, "phrase", phrase, "violations", count)
	g.record(audit.Entry{
		Event:  audit.EventBoundaryViolation,
		UserID: userID,
		Detail: fmt.Sprintf("matched phrase: %s", phrase),
	})

	if count == EscalationThreshold {
		g.logger.Warn("violation threshold reached",
			"user_id", userID, "violations", count)
		g.record(audit.Entry{
			Event:  audit.EventViolationEscalation,
			UserID: userID,
			Detail: fmt.Sprintf("%d violations", count),
		})
		if g.onEscalate != nil {
			g.onEscalate(userID, count)
		}
	}

	return false
}

// ViolationCount returns the number of boundary violations recorded for
// userID, 0 for unseen users. Counts are monotone for the process lifetime;
// there is no reset.
func (g *Gate) ViolationCount(userID string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.violations[userID]
}

func (g *Gate) record(e audit.Entry) {
	if g.auditLog == nil {
		return
	}
	if err := g.auditLog.Record(e); err != nil {
		g.logger.Warn("audit record failed", "event", e.Event, "error", err)
	}
}
