package errcatalog

import "net/http"

// Severity groups statuses the way the error page styles them.
type Severity string

const (
	SeverityServer       Severity = "server"
	SeverityNotFound     Severity = "not_found"
	SeverityAccessDenied Severity = "access_denied"
	SeverityClient       Severity = "client"
)

type PageParams struct {
	Code    string
	Status  int
	Message string
	// CatchAll is set when the page is rendered for an unmatched route
	CatchAll bool
	// Debug exposes the technical details of a registered code
	Debug bool
}

// Page is everything needed to render an error page.
type Page struct {
	Status      int      `json:"status"`
	ErrorCode   string   `json:"errorCode,omitempty"`
	Title       string   `json:"title"`
	UserMessage string   `json:"message"`
	Severity    Severity `json:"severity"`

	// only filled in debug mode
	Category         string `json:"category,omitempty"`
	TechnicalMessage string `json:"technicalMessage,omitempty"`
}

// NewPage resolves the status and message of an error page. A registered code wins
// over the given status, an explicit message wins over everything.
func NewPage(params PageParams) Page {
	code := params.Code
	status := http.StatusInternalServerError
	if params.Status != 0 {
		status = params.Status
	}

	if params.CatchAll && code == "" && params.Status == 0 && params.Message == "" {
		status = http.StatusNotFound
		code = CodeNotFound
	}

	page := Page{
		ErrorCode:   code,
		UserMessage: GenericMessage,
	}

	var rec Record
	var known bool
	switch {
	case code != "":
		rec, known = byCode[code]
		if known {
			page.UserMessage = rec.UserMessage
			status = rec.Status
		}
	case params.Status != 0:
		page.UserMessage = MessageForStatus(params.Status)
	}

	if params.Message != "" {
		page.UserMessage = params.Message
	}

	page.Status = status
	page.Severity = SeverityFor(status)
	page.Title = titleFor(page.Severity)

	if params.Debug && known {
		page.Category = rec.Category
		page.TechnicalMessage = rec.Message
	}

	return page
}

func SeverityFor(status int) Severity {
	switch {
	case status >= 500:
		return SeverityServer
	case status == http.StatusNotFound:
		return SeverityNotFound
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return SeverityAccessDenied
	default:
		return SeverityClient
	}
}

func titleFor(s Severity) string {
	switch s {
	case SeverityServer:
		return "Server Error"
	case SeverityNotFound:
		return "Page Not Found"
	case SeverityAccessDenied:
		return "Access Denied"
	default:
		return "Something Went Wrong"
	}
}
