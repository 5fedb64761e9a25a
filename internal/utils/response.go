package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

const maxBody = 1 << 20

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// DecodeError is returned by DecodeJSON. Its message is fixed and safe to
// send back; Cause holds the decoder's own error for logging.
type DecodeError struct {
	Msg   string
	Cause error
}

func (e *DecodeError) Error() string { return e.Msg }
func (e *DecodeError) Unwrap() error { return e.Cause }

// DecodeJSON reads one JSON object from the body into dst. Unknown fields are
// ignored; trailing data is rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return &DecodeError{Msg: "request body too large", Cause: err}
		}
		if errors.Is(err, io.EOF) {
			return &DecodeError{Msg: "request body is empty", Cause: err}
		}
		return &DecodeError{Msg: "invalid json", Cause: err}
	}
	if dec.More() {
		return &DecodeError{Msg: "invalid json", Cause: errors.New("trailing data after object")}
	}
	return nil
}
