package guard

import (
	"context"

	"github.com/platinummonkey/backoffice/pkg/observability"
)

// Initializer runs lazy session initialization for the authentication stage
type Initializer interface {
	Initialize(ctx context.Context)
}

// stageFunc evaluates one guard stage against a route and session view
type stageFunc func(route Route, sess SessionView) Decision

type stage struct {
	name string
	eval stageFunc
}

// Chain is the ordered guard pipeline evaluated before each navigation. The
// dispatcher short-circuits on the first non-Allow decision; a Retry runs
// session initialization and reevaluates the chain exactly once.
type Chain struct {
	table     *Table
	sess      SessionView
	init      Initializer
	loginPath string
	stages    []stage
	logger    *observability.Logger
	metrics   *observability.Metrics
}

// NewChain builds the standard five-stage chain
func NewChain(table *Table, sess SessionView, init Initializer, loginPath string, logger *observability.Logger, metrics *observability.Metrics) *Chain {
	c := &Chain{
		table:     table,
		sess:      sess,
		init:      init,
		loginPath: loginPath,
		logger:    logger,
		metrics:   metrics,
	}

	c.stages = []stage{
		{"tenant", c.tenantStage},
		{"authentication", c.authenticationStage},
		{"permission", c.permissionStage},
		{"super_admin", c.superAdminStage},
		{"guest", c.guestStage},
	}
	return c
}

// Evaluate runs the chain for a navigation to path. Paths absent from the
// route table are ungoverned and always allowed.
func (c *Chain) Evaluate(ctx context.Context, path string) Decision {
	route, ok := c.table.Lookup(path)
	if !ok {
		return Allow()
	}

	retried := false
	for {
		decision, stageName := c.evaluateOnce(route)

		if decision.Action == ActionRetry {
			if !retried && c.init != nil {
				retried = true
				c.init.Initialize(ctx)
				continue
			}
			// Initialization did not produce a session; fall back to login.
			decision = Redirect(c.loginPath)
		}

		if decision.Action == ActionRedirect && decision.Target == path {
			// The table should make this impossible; allow rather than loop.
			c.logger.WithField("path", path).Error("Guard produced a self-redirect, allowing navigation")
			decision = Allow()
		}

		c.record(stageName, decision)
		return decision
	}
}

func (c *Chain) evaluateOnce(route Route) (Decision, string) {
	for _, s := range c.stages {
		if d := s.eval(route, c.sess); d.Action != ActionAllow {
			return d, s.name
		}
	}
	return Allow(), "chain"
}

// tenantStage gates tenant-scoped routes: the session must be initialized and
// authenticated before any tenant context is meaningful.
func (c *Chain) tenantStage(route Route, sess SessionView) Decision {
	if route.Tenant && !sess.IsAuthenticated() {
		return Retry()
	}
	return Allow()
}

// authenticationStage lazily initializes the session, then requires an
// authenticated operator for every non-guest route.
func (c *Chain) authenticationStage(route Route, sess SessionView) Decision {
	if !route.GuestOnly && !sess.IsAuthenticated() {
		return Retry()
	}
	return Allow()
}

// permissionStage enforces the route's declared permission. A denied operator
// lands on their first accessible route; an operator whose permission set
// grants nothing lands on login, since the session is effectively useless.
func (c *Chain) permissionStage(route Route, sess SessionView) Decision {
	if route.Permission == "" || sess.HasPermission(route.Permission) {
		return Allow()
	}

	fallback, ok := c.table.FirstAccessible(sess, route.Path)
	if !ok {
		return Redirect(c.loginPath)
	}
	return Redirect(fallback)
}

// superAdminStage enforces elevated-role routes
func (c *Chain) superAdminStage(route Route, sess SessionView) Decision {
	if !route.SuperAdmin || sess.IsSuperAdmin() {
		return Allow()
	}

	fallback, ok := c.table.FirstAccessible(sess, route.Path)
	if !ok {
		return Redirect(c.loginPath)
	}
	return Redirect(fallback)
}

// guestStage inverts the guard on public-only routes: an authenticated
// operator is sent to their first accessible route, never to login. With no
// accessible route the navigation is allowed to stay put.
func (c *Chain) guestStage(route Route, sess SessionView) Decision {
	if !route.GuestOnly || !sess.IsAuthenticated() {
		return Allow()
	}

	if fallback, ok := c.table.FirstAccessible(sess, route.Path); ok {
		return Redirect(fallback)
	}
	return Allow()
}

func (c *Chain) record(stageName string, decision Decision) {
	if c.metrics != nil {
		c.metrics.GuardDecisionsTotal.WithLabelValues(stageName, decision.Action.String()).Inc()
	}
}
