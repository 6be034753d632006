// Package router holds the client's view table and the navigation guard
// that keeps anonymous users out of authenticated views.
package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	// LoginPath is the login view.
	LoginPath = "/login"
	// HomePath is where authenticated users land.
	HomePath = "/home"

	maxHops = 5
)

// ErrRedirectLoop is returned by Push when redirects do not settle.
var ErrRedirectLoop = errors.New("router: redirect loop")

// Meta is the per-route metadata consulted by the guard.
type Meta struct {
	Title        string
	RequiresAuth bool
}

// Route is one entry of the view table.
type Route struct {
	Path     string
	Name     string
	Redirect string
	Meta     Meta
}

// DefaultRoutes returns the application's views.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", Redirect: LoginPath},
		{Path: LoginPath, Name: "Login", Meta: Meta{Title: "Login"}},
		{Path: "/register", Name: "Register", Meta: Meta{Title: "Register"}},
		{Path: HomePath, Name: "Home", Meta: Meta{Title: "Home", RequiresAuth: true}},
		{Path: "/home/membership", Name: "Membership", Meta: Meta{Title: "Membership", RequiresAuth: true}},
		{Path: "/user/profile", Name: "UserProfile", Meta: Meta{Title: "Profile", RequiresAuth: true}},
		{Path: "/user/consumption", Name: "UserConsumption", Meta: Meta{Title: "Consumption History", RequiresAuth: true}},
		{Path: "/user/works", Name: "UserWorks", Meta: Meta{Title: "My Works", RequiresAuth: true}},
	}
}

// NotFoundRoute matches every path missing from the table.
var NotFoundRoute = Route{Name: "NotFound", Meta: Meta{Title: "Page Not Found"}}

// Table resolves paths to routes.
type Table struct {
	routes   map[string]Route
	notFound Route
}

// NewTable indexes routes by path.
func NewTable(routes []Route, notFound Route) *Table {
	t := &Table{routes: make(map[string]Route, len(routes)), notFound: notFound}
	for _, r := range routes {
		t.routes[r.Path] = r
	}
	return t
}

// Match returns the route for location, ignoring query and fragment.
func (t *Table) Match(location string) Route {
	p := pathOf(location)
	if r, ok := t.routes[p]; ok {
		return r
	}
	nf := t.notFound
	nf.Path = p
	return nf
}

// LoginLocation returns the login view location carrying redirect as the
// return target. Slashes in the target are kept readable.
func LoginLocation(redirect string) string {
	if redirect == "" {
		return LoginPath
	}
	return LoginPath + "?redirect=" + strings.ReplaceAll(url.QueryEscape(redirect), "%2F", "/")
}

// RedirectTarget extracts the return target from a login location.
func RedirectTarget(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return u.Query().Get("redirect")
}

// Outcome is the result of a guard check.
type Outcome int

const (
	Allowed Outcome = iota
	RedirectedToLogin
	RedirectedToHome
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case RedirectedToLogin:
		return "redirected-to-login"
	case RedirectedToHome:
		return "redirected-to-home"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Decision is what the guard decided for one navigation attempt.
type Decision struct {
	Outcome Outcome
	// Location is the redirect target, or the requested location when allowed.
	Location string
	// Title is the new document title; empty leaves it unchanged.
	Title string
}

// Guard decides whether a navigation may proceed.
type Guard struct {
	table    *Table
	appTitle string
}

// NewGuard returns a Guard over table. appTitle suffixes every page title.
func NewGuard(table *Table, appTitle string) *Guard {
	return &Guard{table: table, appTitle: appTitle}
}

// Check evaluates a navigation to location.
func (g *Guard) Check(location string, authenticated bool) Decision {
	route := g.table.Match(location)

	if route.Path == LoginPath && authenticated {
		return Decision{Outcome: RedirectedToHome, Location: HomePath}
	}
	if route.Meta.RequiresAuth && !authenticated {
		return Decision{Outcome: RedirectedToLogin, Location: LoginLocation(location)}
	}

	d := Decision{Outcome: Allowed, Location: location}
	if route.Meta.Title != "" {
		d.Title = route.Meta.Title + " - " + g.appTitle
	}
	return d
}

// Authenticator reports the current session state.
type Authenticator interface {
	IsAuthenticated() bool
}

// Router tracks the current location and applies the guard on every push.
type Router struct {
	table *Table
	guard *Guard
	auth  Authenticator
	log   *zap.Logger

	mu      sync.Mutex
	current string
	title   string
}

// New returns a Router positioned nowhere; the first Push sets the location.
func New(table *Table, guard *Guard, auth Authenticator, log *zap.Logger) *Router {
	return &Router{table: table, guard: guard, auth: auth, log: log}
}

// Push navigates to location, following route and guard redirects. The
// returned decision carries the first guard outcome and the settled location.
func (r *Router) Push(location string) (Decision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	to := location
	outcome := Allowed
	for hop := 0; hop < maxHops; hop++ {
		if route := r.table.Match(to); route.Redirect != "" {
			to = route.Redirect
			continue
		}
		d := r.guard.Check(to, r.auth.IsAuthenticated())
		if d.Outcome != Allowed {
			if outcome == Allowed {
				outcome = d.Outcome
			}
			r.log.Debug("navigation redirected",
				zap.String("from", to), zap.String("to", d.Location), zap.Stringer("outcome", d.Outcome))
			to = d.Location
			continue
		}
		r.apply(d)
		d.Outcome = outcome
		return d, nil
	}
	return Decision{}, fmt.Errorf("%w: %s", ErrRedirectLoop, location)
}

func (r *Router) apply(d Decision) {
	r.current = d.Location
	if d.Title != "" {
		r.title = d.Title
	}
}

// Current returns the current location, or "/" before the first push.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == "" {
		return "/"
	}
	return r.current
}

// Title returns the current document title.
func (r *Router) Title() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.title
}

func pathOf(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}
	if len(location) > 1 {
		location = strings.TrimRight(location, "/")
	}
	if location == "" {
		return "/"
	}
	return location
}
