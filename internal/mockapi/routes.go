// Package mockapi emulates the student-clubs REST API in front of the local
// store, either as an http.RoundTripper short-circuiting a client's calls or
// as an http.Handler for the standalone dev server.
package mockapi

import (
	"io"
	"net/http"
	"strings"
)

// handlerFunc produces the fabricated outcome for one matched route.
type handlerFunc func(r *http.Request, body []byte, params map[string]string) *result

// route binds a method and a compiled path pattern to a handler. Routes with
// adminOnly set reject callers whose token does not resolve to an ADMIN
// user. write selects the longer simulated latency.
type route struct {
	method    string
	pattern   pattern
	adminOnly bool
	write     bool
	handle    handlerFunc
}

// pattern is a compiled path pattern matched against the trailing segments
// of a request path, so both absolute URLs and prefixed paths (/api/v1/...)
// resolve. Segments wrapped in braces capture parameters. Exact per-segment
// matching makes nested resources (committees/{id}/members) unambiguous
// without ordering tricks.
type pattern []string

func compilePattern(s string) pattern {
	return pattern(strings.Split(strings.Trim(s, "/"), "/"))
}

// match reports whether p matches the trailing segments of segs and returns
// any captured parameters.
func (p pattern) match(segs []string) (map[string]string, bool) {
	if len(segs) < len(p) {
		return nil, false
	}
	tail := segs[len(segs)-len(p):]
	var params map[string]string
	for i, ps := range p {
		if strings.HasPrefix(ps, "{") && strings.HasSuffix(ps, "}") {
			if tail[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[ps[1:len(ps)-1]] = tail[i]
			continue
		}
		if ps != tail[i] {
			return nil, false
		}
	}
	return params, true
}

func pathSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func (a *API) buildRoutes() {
	add := func(method, p string, adminOnly, write bool, h handlerFunc) {
		a.routes = append(a.routes, route{
			method:    method,
			pattern:   compilePattern(p),
			adminOnly: adminOnly,
			write:     write,
			handle:    h,
		})
	}

	// Auth
	add(http.MethodPost, "auth/register", false, true, a.handleRegister)
	add(http.MethodPost, "auth/signup", false, true, a.handleRegister)
	add(http.MethodPost, "auth/login", false, true, a.handleLogin)
	add(http.MethodGet, "auth/me", false, false, a.handleMe)

	// Clubs: reads are public, writes are admin-gated.
	add(http.MethodGet, "clubs", false, false, a.handleListClubs)
	add(http.MethodPost, "clubs", true, true, a.handleCreateClub)
	add(http.MethodGet, "clubs/{id}", false, false, a.handleGetClub)
	add(http.MethodPut, "clubs/{id}", true, true, a.handleUpdateClub)
	add(http.MethodDelete, "clubs/{id}", true, false, a.handleDeleteClub)

	// Events
	add(http.MethodGet, "events", false, false, a.handleListEvents)
	add(http.MethodPost, "events", true, true, a.handleCreateEvent)
	add(http.MethodGet, "events/{id}", false, false, a.handleGetEvent)
	add(http.MethodDelete, "events/{id}", true, false, a.handleDeleteEvent)

	// Gallery
	add(http.MethodGet, "gallery", false, false, a.handleListGallery)
	add(http.MethodPost, "gallery", true, true, a.handleCreateGalleryItem)
	add(http.MethodGet, "gallery/{id}", false, false, a.handleGetGalleryItem)
	add(http.MethodDelete, "gallery/{id}", true, false, a.handleDeleteGalleryItem)

	// Admin-only resources: every route is gated, including reads.
	add(http.MethodGet, "admins", true, false, a.handleListAdmins)
	add(http.MethodPost, "admins", true, true, a.handleCreateAdmin)
	add(http.MethodGet, "admins/{id}", true, false, a.handleGetAdmin)
	add(http.MethodDelete, "admins/{id}", true, false, a.handleDeleteAdmin)

	add(http.MethodGet, "board-members", true, false, a.handleListBoardMembers)
	add(http.MethodPost, "board-members", true, true, a.handleCreateBoardMember)
	add(http.MethodGet, "board-members/{id}", true, false, a.handleGetBoardMember)
	add(http.MethodDelete, "board-members/{id}", true, false, a.handleDeleteBoardMember)

	// Committee membership sub-routes are distinct patterns, so they can
	// never be shadowed by the committee CRUD routes.
	add(http.MethodPost, "committees/{id}/members", true, false, a.handleAddCommitteeMember)
	add(http.MethodDelete, "committees/{id}/members/{userId}", true, false, a.handleRemoveCommitteeMember)
	add(http.MethodGet, "committees", true, false, a.handleListCommittees)
	add(http.MethodPost, "committees", true, true, a.handleCreateCommittee)
	add(http.MethodGet, "committees/{id}", true, false, a.handleGetCommittee)
	add(http.MethodDelete, "committees/{id}", true, false, a.handleDeleteCommittee)
}

// dispatch matches the request against the route table and runs the handler.
// The second return is false when no route matches the path at all, which
// callers treat as "not ours" (pass through in transport mode).
func (a *API) dispatch(r *http.Request) (*result, bool) {
	segs := pathSegments(r.URL.Path)
	pathMatched := false
	for i := range a.routes {
		rt := &a.routes[i]
		params, ok := rt.pattern.match(segs)
		if !ok {
			continue
		}
		pathMatched = true
		if rt.method != r.Method {
			continue
		}
		if rt.adminOnly && !a.isAdmin(r) {
			return fail(http.StatusForbidden, "Forbidden - admin access required"), true
		}
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body.Close()
		}
		res := rt.handle(r, body, params)
		if rt.write {
			res.delay = a.writeLatency
		} else {
			res.delay = a.readLatency
		}
		return res, true
	}
	if pathMatched {
		return fail(http.StatusMethodNotAllowed, "Method Not Allowed"), true
	}
	return nil, false
}
