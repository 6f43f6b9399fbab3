package guard

// Action is the outcome class of a guard stage
type Action int

const (
	// ActionAllow lets the navigation proceed to the next stage
	ActionAllow Action = iota
	// ActionRedirect sends the navigation to Decision.Target instead
	ActionRedirect
	// ActionRetry asks the dispatcher to run lazy session initialization and
	// reevaluate the chain once
	ActionRetry
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionRedirect:
		return "redirect"
	case ActionRetry:
		return "retry"
	default:
		return "unknown"
	}
}

// Decision is the tagged result of a guard stage
type Decision struct {
	Action Action
	Target string
}

// Allow lets the navigation proceed
func Allow() Decision {
	return Decision{Action: ActionAllow}
}

// Redirect sends the navigation to path
func Redirect(path string) Decision {
	return Decision{Action: ActionRedirect, Target: path}
}

// Retry requests lazy initialization followed by one reevaluation
func Retry() Decision {
	return Decision{Action: ActionRetry}
}

// Requirement is the read-only metadata a route declares. It is produced by
// routing configuration and never mutated by the chain.
type Requirement struct {
	// Permission gates the route on a single permission name; empty means any
	// authenticated operator may enter.
	Permission string `yaml:"permission"`

	// SuperAdmin restricts the route to operators holding an admin role
	SuperAdmin bool `yaml:"super_admin"`

	// Tenant marks the route as tenant-scoped
	Tenant bool `yaml:"tenant"`

	// GuestOnly inverts the guard for public routes like login
	GuestOnly bool `yaml:"guest_only"`
}

// Route binds a path to its requirement. Declaration order in the table is
// the fallback priority order.
type Route struct {
	Path        string `yaml:"path"`
	Requirement `yaml:",inline"`
}

// SessionView is the session-derived read model the stages consult
type SessionView interface {
	IsAuthenticated() bool
	IsSuperAdmin() bool
	HasPermission(name string) bool
}
