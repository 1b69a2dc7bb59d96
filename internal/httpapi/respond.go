package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// respondJSON writes data as JSON. Successful bodies carry an ETag and a
// matching If-None-Match short circuits to 304.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		http.Error(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusOK {
		etag := `"` + strconv.FormatUint(xxhash.Sum64(buf.Bytes()), 16) + `"`
		w.Header().Set("ETag", etag)
		if r != nil && r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, nil, status, map[string]string{"detail": message})
}

// reject answers with the status and text of a catalog outcome.
func reject(w http.ResponseWriter, outcome error) {
	respondError(w, statusFor(outcome), messageFor(outcome))
}
