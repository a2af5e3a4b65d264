package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/fastprodman/dicevault/internal/ledger"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.WithError(err).Error("failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

// writeLedgerError maps a service error to its HTTP status by kind.
func writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	var status int

	switch ledger.KindOf(err) {
	case ledger.KindValidation:
		status = http.StatusBadRequest
	case ledger.KindAuthorization:
		status = http.StatusForbidden
	case ledger.KindLimit, ledger.KindState:
		status = http.StatusConflict
	case ledger.KindNotFound:
		status = http.StatusNotFound
	case ledger.KindArithmetic:
		status = http.StatusUnprocessableEntity
	default:
		log.WithError(err).WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal error", "Internal")

		return
	}

	code := ledger.CodeOf(err)
	writeError(w, status, rootMessage(err), code)
}

// rootMessage returns the message of the ledger sentinel inside err so
// internal wrapping never leaks to clients.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// decodeJSON reads a size-capped body into dst, rejecting unknown fields,
// and validates it. It writes the error response itself and reports whether
// the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "empty body", "InvalidBody")
			return false
		}

		writeError(w, http.StatusBadRequest, "invalid JSON", "InvalidBody")
		return false
	}

	err = validate.Struct(dst)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "InvalidBody")
		return false
	}

	return true
}

// Amount is a base-unit quantity with its human-readable form.
type Amount struct {
	Raw     int64  `json:"raw"`
	Display string `json:"display"`
}

type amountFormatter struct {
	decimals int32
}

func (f amountFormatter) amount(raw int64) Amount {
	return Amount{
		Raw:     raw,
		Display: decimal.New(raw, -f.decimals).StringFixed(f.decimals),
	}
}
