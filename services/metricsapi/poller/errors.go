package poller

import "net/http"

type errStatusNotOK int

func (e errStatusNotOK) Error() string {
	return "unexpected HTTP status code: " + http.StatusText(int(e))
}
