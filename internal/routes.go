package internal

import (
	"path"
	"strings"
)

// Route paths of the application
const (
	RouteHome      = "/"
	RouteLogin     = "/login"
	RouteSignup    = "/signup"
	RouteDashboard = "/dashboard"
)

// Screen identifies what a route renders
type Screen string

const (
	ScreenHome   Screen = "home"
	ScreenLogin  Screen = "login"
	ScreenSignup Screen = "signup"
	ScreenUpload Screen = "upload"
	ScreenSearch Screen = "search"
	ScreenDemo   Screen = "demo"
)

// Route is one entry of the route table. Children are relative to their parent.
type Route struct {
	Path     string
	Screen   Screen
	Index    bool // rendered when the parent path itself is requested
	Layout   bool // authenticated-area layout wrapping its children
	Children []Route
}

// Routes is the navigation table. Nothing checks the credential before
// rendering the dashboard.
var Routes = []Route{
	{Path: RouteHome, Screen: ScreenHome},
	{Path: RouteLogin, Screen: ScreenLogin},
	{Path: RouteSignup, Screen: ScreenSignup},
	{
		Path:   RouteDashboard,
		Layout: true,
		Children: []Route{
			{Screen: ScreenUpload, Index: true},
			{Path: "upload", Screen: ScreenUpload},
			{Path: "search", Screen: ScreenSearch},
			{Path: "demo", Screen: ScreenDemo},
		},
	},
}

// Resolution is the outcome of navigating to a path
type Resolution struct {
	Path       string // path actually rendered
	Screen     Screen
	Dashboard  bool // rendered inside the dashboard layout
	Redirected bool // requested path was unknown
}

// Resolve maps a requested path onto a screen. Matching ignores case and
// trailing slashes; anything unknown redirects to the home route.
func Resolve(requested string) Resolution {
	p := normalizePath(requested)

	for _, r := range Routes {
		if len(r.Children) == 0 {
			if strings.EqualFold(p, r.Path) {
				return Resolution{Path: r.Path, Screen: r.Screen}
			}
			continue
		}

		if !strings.EqualFold(p, r.Path) && !hasPrefixFold(p, r.Path+"/") {
			continue
		}
		rest := strings.TrimPrefix(p[len(r.Path):], "/")
		for _, child := range r.Children {
			if (child.Index && rest == "") || (!child.Index && strings.EqualFold(rest, child.Path)) {
				full := r.Path
				if child.Path != "" {
					full = r.Path + "/" + child.Path
				}
				return Resolution{Path: full, Screen: child.Screen, Dashboard: r.Layout}
			}
		}
	}

	LogDebug("No route for %q, redirecting to %s", requested, RouteHome)
	return Resolution{Path: RouteHome, Screen: ScreenHome, Redirected: true}
}

// DashboardPath returns the route of a dashboard screen
func DashboardPath(screen Screen) string {
	return RouteDashboard + "/" + string(screen)
}

func normalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
