package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/service/query"
)

// parseFilter reads the flt_* query parameters. On failure it has already
// written a 400 and returns false.
func parseFilter(w http.ResponseWriter, r *http.Request) (event.Filter, bool) {
	filter, err := query.FromQuery(r.URL.Query(), query.DefaultPrefix)
	if err != nil {
		response.BadRequest(w, "Invalid filter", map[string]string{"filter": err.Error()})
		return event.Filter{}, false
	}
	return filter, true
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

// queryList splits a comma separated parameter, dropping blanks.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, item := range strings.Split(r.URL.Query().Get(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
