package errcatalog

import (
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// ErrorCodeHeader is the response header the deployment platform uses to report its error code.
const ErrorCodeHeader = "x-vercel-error-code"

// BoundaryFallbackMessage is shown when a crash can not be attributed to a known error.
const BoundaryFallbackMessage = "Something went wrong. Please try refreshing the page."

const maxErrorBodySize = 1 << 20

// Classification is the normalized shape rendered by every error surface.
type Classification struct {
	ErrorCode  string `json:"errorCode,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	Message    string `json:"message"`
}

// Classify normalizes a bare code, a bare status or an error-like value.
// Precedence: code, then status, then message, then the generic message.
// A value carrying both a code and a status always takes the code path.
func Classify(input any) Classification {
	if input == nil {
		return Classification{Message: GenericMessage}
	}

	if code, ok := input.(string); ok {
		return Classification{
			ErrorCode: code,
			Message:   MessageForCode(code),
		}
	}

	if status, ok := asStatus(input); ok {
		return Classification{
			StatusCode: status,
			Message:    MessageForStatus(status),
		}
	}

	if code := codeOf(input); code != "" {
		c := Classification{ErrorCode: code}
		rec, known := byCode[code]
		switch {
		case known && rec.UserMessage != "":
			c.Message = rec.UserMessage
		case messageOf(input) != "":
			c.Message = messageOf(input)
		default:
			c.Message = MessageForCode(code)
		}
		if known {
			c.StatusCode = rec.Status
		}
		return c
	}

	if status := statusOf(input); status != 0 {
		return Classification{
			StatusCode: status,
			Message:    MessageForStatus(status),
		}
	}

	if msg := messageOf(input); msg != "" {
		return Classification{Message: msg}
	}

	return Classification{Message: GenericMessage}
}

// ClassifyCode handles an error code reported by the deployment platform.
// Unknown codes are logged and degrade to the generic message.
func ClassifyCode(code string) Classification {
	rec, ok := byCode[code]
	if !ok {
		log.Warnf("unknown platform error code: %s", code)
		return Classification{Message: GenericMessage}
	}
	return Classify(&Error{
		Code:    rec.Code,
		Status:  rec.Status,
		Message: rec.UserMessage,
	})
}

// ClassifyResponse classifies a failed HTTP response. The error code is taken from
// the platform header and the message from a JSON body when one is present.
// The caller still owns (and closes) the response body.
func ClassifyResponse(resp *http.Response) Classification {
	if resp == nil {
		return Classification{Message: GenericMessage}
	}

	c := Classification{
		ErrorCode:  resp.Header.Get(ErrorCodeHeader),
		StatusCode: resp.StatusCode,
	}

	if resp.Body != nil {
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBodySize)).Decode(&body); err != nil {
			log.Tracef("classify response, no json error body: %s", err)
		} else {
			c.Message = body.Message
		}
	}

	if c.Message == "" {
		c.Message = MessageForStatus(resp.StatusCode)
	}

	return c
}

// BoundaryMessage picks the message shown after an unexpected crash: the friendly
// message when the error code (or, lacking one, the error text) is registered.
func BoundaryMessage(err error) string {
	if err == nil {
		return BoundaryFallbackMessage
	}
	key := codeOf(err)
	if key == "" {
		key = err.Error()
	}
	if !IsKnownError(key) {
		return BoundaryFallbackMessage
	}
	return MessageForCode(key)
}
