package errpage

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/localblog/internal/errcatalog"
	"github.com/2beens/localblog/pkg"
)

type lookupResponse struct {
	Code             string `json:"code"`
	Status           int    `json:"status"`
	UserMessage      string `json:"message"`
	Category         string `json:"category,omitempty"`
	TechnicalMessage string `json:"technicalMessage,omitempty"`
}

type Handler struct {
	debug bool
}

func NewHandler(debug bool) *Handler {
	return &Handler{
		debug: debug,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/error", handler.handleErrorPage).Methods("GET", "OPTIONS").Name("error-page")
	router.HandleFunc("/errors/{code}", handler.handleLookup).Methods("GET", "OPTIONS").Name("error-lookup")
	router.NotFoundHandler = http.HandlerFunc(handler.handleNotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(handler.handleMethodNotAllowed)
}

// handleErrorPage resolves ?code=&status=&message= the way the error page does.
func (handler *Handler) handleErrorPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var status int
	if statusStr := query.Get("status"); statusStr != "" {
		parsed, err := strconv.Atoi(statusStr)
		if err != nil {
			log.Tracef("error page, ignoring invalid status [%s]", statusStr)
		} else {
			status = parsed
		}
	}

	page := errcatalog.NewPage(errcatalog.PageParams{
		Code:    query.Get("code"),
		Status:  status,
		Message: query.Get("message"),
		Debug:   handler.debug,
	})
	writePage(w, page)
}

func (handler *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	rec, ok := errcatalog.LookupByCode(code)
	if !ok {
		writePage(w, errcatalog.NewPage(errcatalog.PageParams{
			Code:   errcatalog.CodeNotFound,
			Status: http.StatusNotFound,
		}))
		return
	}

	resp := lookupResponse{
		Code:        rec.Code,
		Status:      rec.Status,
		UserMessage: rec.UserMessage,
	}
	if handler.debug {
		resp.Category = rec.Category
		resp.TechnicalMessage = rec.Message
	}
	pkg.WriteJSON(w, http.StatusOK, resp)
}

func (handler *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	log.Tracef("no route for [%s] %s", r.Method, r.URL.Path)
	writePage(w, errcatalog.NewPage(errcatalog.PageParams{
		CatchAll: true,
		Debug:    handler.debug,
	}))
}

func (handler *Handler) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writePage(w, errcatalog.NewPage(errcatalog.PageParams{
		Code:  errcatalog.CodeInvalidRequestMethod,
		Debug: handler.debug,
	}))
}

func writePage(w http.ResponseWriter, page errcatalog.Page) {
	pkg.WriteJSON(w, page.Status, page)
}
