package mockapi

import "net/http"

// ServeHTTP exposes the emulator as a server-side handler for the standalone
// dev server. Unlike transport mode there is nothing to fall through to, so
// unmatched paths get a 404.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, matched := a.dispatch(r)
	if !matched {
		res = fail(http.StatusNotFound, "Not Found")
	}
	if err := sleep(r, res.delay); err != nil {
		return
	}
	res.write(w)
}
