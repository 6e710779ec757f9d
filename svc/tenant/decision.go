package tenant

import (
	"net/http"

	"github.com/quinncodes/orgspace/pkg/domains"
	"github.com/quinncodes/orgspace/pkg/environment"
)

// DecisionKind is the terminal disposition of the access decision.
type DecisionKind uint8

const (
	// DecisionServe lets the request through to its handler.
	DecisionServe DecisionKind = iota
	// DecisionRedirect sends the caller elsewhere.
	DecisionRedirect
	// DecisionDeny rejects the request with a status code.
	DecisionDeny
)

// Decision is the outcome of the access decision step.
type Decision struct {
	Kind     DecisionKind
	Location string // redirect target, absolute or host-relative
	Status   int    // HTTP status for redirects and denials
}

func serve() Decision {
	return Decision{Kind: DecisionServe}
}

func redirect(location string) Decision {
	return Decision{Kind: DecisionRedirect, Location: location, Status: http.StatusFound}
}

// Engine turns a resolved RequestContext into a Decision. It performs
// no I/O: every input is already resolved, which keeps the decision
// table independently testable.
type Engine struct {
	domains domains.Config
}

// NewEngine creates the access decision engine.
func NewEngine(cfg domains.Config) Engine {
	return Engine{domains: cfg}
}

// Decide evaluates the decision table over the request context. The
// only non-redirect terminal states are "no tenant" (main-domain
// request) and "member with a role" (tenant dashboard).
func (e Engine) Decide(env environment.Environment, rc RequestContext) Decision {
	switch rc.OrgError {
	case OrgErrorFault:
		// Could not determine tenant state; park the caller on the
		// main domain rather than guessing.
		return redirect(e.domains.MainURL(env, "/"))

	case OrgErrorNotFound:
		// Dead subdomain: offer creation, carrying the slug as a hint.
		return redirect(e.domains.OrgCreationURL(env, rc.Slug))

	case OrgErrorNoAccess:
		// Organization exists, caller is authenticated but not a member.
		return redirect("/user/login")

	case OrgErrorNone:
		if !rc.HasTenant() {
			return serve()
		}
		if !rc.HasUser() {
			// Anonymous visitor to a live tenant.
			return redirect("/user/login")
		}
		if !rc.HasRole() {
			// Unreachable when the resolver upheld its contract, but
			// the safe answer to an inconsistent context is the same
			// as NoAccess.
			return redirect("/user/login")
		}
		return serve()

	default:
		return redirect(e.domains.MainURL(env, "/"))
	}
}
