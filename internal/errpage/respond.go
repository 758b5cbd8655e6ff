// Package errpage renders classified error responses.
package errpage

import (
	"context"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/localblog/internal/errcatalog"
	"github.com/2beens/localblog/internal/kvstore"
	"github.com/2beens/localblog/pkg"
)

// StorageFullMessage is shown when the store refuses a write for lack of space.
const StorageFullMessage = "Storage is full. Please delete some posts or comments and try again."

// ConflictMessage is shown when concurrent writers kept colliding on the same data.
const ConflictMessage = "The data was changed in the meantime. Please try again."

type Response struct {
	ErrorCode  string `json:"errorCode,omitempty"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	// only set in debug mode
	Detail string `json:"detail,omitempty"`
}

// Classify turns any error into a response. Errors carrying a registered code go
// through the catalog, everything unexpected becomes a 500 with a safe message.
func Classify(err error, debug bool) Response {
	var resp Response

	var catalogErr *errcatalog.Error
	switch {
	case err == nil:
		resp = fromClassification(errcatalog.Classify(http.StatusInternalServerError))
	case errors.As(err, &catalogErr):
		resp = fromClassification(errcatalog.Classify(catalogErr))
	case errors.Is(err, kvstore.ErrQuotaExceeded):
		resp = Response{
			StatusCode: http.StatusInsufficientStorage,
			Message:    StorageFullMessage,
		}
	case errors.Is(err, kvstore.ErrConflict):
		resp = Response{
			StatusCode: http.StatusConflict,
			Message:    ConflictMessage,
		}
	case errors.Is(err, context.DeadlineExceeded):
		resp = fromClassification(errcatalog.Classify(http.StatusGatewayTimeout))
	default:
		resp = fromClassification(errcatalog.Classify(http.StatusInternalServerError))
	}

	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusInternalServerError
	}
	if debug && err != nil {
		resp.Detail = err.Error()
	}

	return resp
}

// Respond writes the classified error as JSON.
func Respond(w http.ResponseWriter, err error, debug bool) {
	resp := Classify(err, debug)
	if resp.StatusCode >= http.StatusInternalServerError {
		log.Errorf("request failed [%d]: %s", resp.StatusCode, err)
	} else {
		log.Tracef("request rejected [%d]: %s", resp.StatusCode, err)
	}
	Write(w, resp)
}

// RespondStatus writes a plain status error. An empty message uses the catalog's message for the status.
func RespondStatus(w http.ResponseWriter, status int, message string) {
	if message == "" {
		message = errcatalog.MessageForStatus(status)
	}
	Write(w, Response{
		StatusCode: status,
		Message:    message,
	})
}

// RespondCode writes the catalog classification of a registered code.
func RespondCode(w http.ResponseWriter, code string) {
	Write(w, fromClassification(errcatalog.ClassifyCode(code)))
}

func Write(w http.ResponseWriter, resp Response) {
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusInternalServerError
	}
	pkg.WriteJSON(w, resp.StatusCode, resp)
}

func fromClassification(c errcatalog.Classification) Response {
	return Response{
		ErrorCode:  c.ErrorCode,
		StatusCode: c.StatusCode,
		Message:    c.Message,
	}
}
