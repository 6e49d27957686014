package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

var errInvalidID = errors.New("invalid id")

// decodeJSON reads the body into dst and runs the struct validator.
func (h *Handlers) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return h.validate(w, dst)
}

func (h *Handlers) validate(w http.ResponseWriter, dst interface{}) bool {
	if h.Validate == nil {
		return true
	}
	if err := h.Validate.Struct(dst); err != nil {
		WriteError(w, validationMessage(err), http.StatusBadRequest)
		return false
	}
	return true
}

// pathID parses a positive numeric path variable.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// queryInt returns 0 for a missing or malformed value so services apply defaults.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

// stringList accepts a JSON array or a comma separated string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = items
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*l = splitList(joined)
	return nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	return strings.Split(value, ",")
}
