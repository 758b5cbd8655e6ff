package blog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/localblog/internal/errcatalog"
	"github.com/2beens/localblog/internal/errpage"
	"github.com/2beens/localblog/internal/localstore"
	"github.com/2beens/localblog/pkg"
)

// 1 MB is plenty for a post
const maxBodyBytes = 1 << 20

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type commentRequest struct {
	Content string `json:"content"`
}

type postsResponse struct {
	Posts []localstore.Blog `json:"posts"`
	Total int               `json:"total"`
}

type commentsResponse struct {
	Comments []localstore.Comment `json:"comments"`
	Total    int                  `json:"total"`
}

// userResponse leaves the stored password out.
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type meResponse struct {
	LoggedIn bool          `json:"loggedIn"`
	User     *userResponse `json:"user,omitempty"`
}

type deletedResponse struct {
	Deleted string `json:"deleted"`
}

type Handler struct {
	service *Service
	debug   bool
}

func NewHandler(service *Service, debug bool) *Handler {
	return &Handler{
		service: service,
		debug:   debug,
	}
}

// SetupRoutes registers the blog routes. authMiddlewares only wrap the /auth routes.
func (handler *Handler) SetupRoutes(router *mux.Router, authMiddlewares ...mux.MiddlewareFunc) {
	authRouter := router.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/signup", handler.handleSignup).Methods("POST", "OPTIONS").Name("auth-signup")
	authRouter.HandleFunc("/login", handler.handleLogin).Methods("POST", "OPTIONS").Name("auth-login")
	authRouter.HandleFunc("/logout", handler.handleLogout).Methods("POST", "OPTIONS").Name("auth-logout")
	authRouter.HandleFunc("/me", handler.handleMe).Methods("GET", "OPTIONS").Name("auth-me")
	authRouter.Use(authMiddlewares...)

	router.HandleFunc("/blogs", handler.handleList).Methods("GET", "OPTIONS").Name("blogs-list")
	router.HandleFunc("/blogs/mine", handler.handleMine).Methods("GET", "OPTIONS").Name("blogs-mine")
	router.HandleFunc("/blogs", handler.handleCreate).Methods("POST").Name("blogs-create")
	router.HandleFunc("/blogs/{id}", handler.handleGet).Methods("GET", "OPTIONS").Name("blogs-get")
	router.HandleFunc("/blogs/{id}", handler.handleUpdate).Methods("PUT").Name("blogs-update")
	router.HandleFunc("/blogs/{id}", handler.handleDelete).Methods("DELETE").Name("blogs-delete")
	router.HandleFunc("/blogs/{id}/like", handler.handleToggleLike).Methods("POST", "OPTIONS").Name("blogs-like")
	router.HandleFunc("/blogs/{id}/comments", handler.handleComments).Methods("GET", "OPTIONS").Name("blogs-comments")
	router.HandleFunc("/blogs/{id}/comments", handler.handleAddComment).Methods("POST").Name("blogs-add-comment")

	router.HandleFunc("/comments/{id}", handler.handleUpdateComment).Methods("PUT", "OPTIONS").Name("comments-update")
	router.HandleFunc("/comments/{id}", handler.handleDeleteComment).Methods("DELETE").Name("comments-delete")
}

func (handler *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var params SignupParams
	if !handler.decodeBody(w, r, &params) {
		return
	}

	user, err := handler.service.Signup(r.Context(), params)
	if err != nil {
		handler.respondErr(w, err)
		return
	}

	pkg.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !handler.decodeBody(w, r, &req) {
		return
	}

	user, err := handler.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handler.respondErr(w, err)
		return
	}

	log.Debugf("user logged in: %s", user.Username)
	pkg.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := handler.service.Logout(r.Context()); err != nil {
		handler.respondErr(w, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, meResponse{LoggedIn: false})
}

func (handler *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := handler.service.CurrentUser(r.Context())
	if err != nil {
		handler.respondErr(w, err)
		return
	}
	if user == nil {
		pkg.WriteJSON(w, http.StatusOK, meResponse{LoggedIn: false})
		return
	}
	pkg.WriteJSON(w, http.StatusOK, meResponse{
		LoggedIn: true,
		User:     toUserResponse(user),
	})
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var (
		posts []localstore.Blog
		err   error
	)
	if authorID := r.URL.Query().Get("author"); authorID != "" {
		posts, err = handler.service.PostsByAuthor(r.Context(), authorID)
	} else {
		posts, err = handler.service.Posts(r.Context())
	}
	if err != nil {
		handler.respondErr(w, err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, postsResponse{Posts: posts, Total: len(posts)})
}

func (handler *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	posts, err := handler.service.MyPosts(r.Context())
	if err != nil {
		handler.respondErr(w, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, postsResponse{Posts: posts, Total: len(posts)})
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !handler.decodeBody(w, r, &req) {
		return
	}

	post, err := handler.service.CreatePost(r.Context(), req.Title, req.Content)
	if err != nil {
		handler.respondErr(w, err)
		return
	}

	log.Debugf("new post added: [%s] %s", post.ID, post.Title)
	pkg.WriteJSON(w, http.StatusCreated, post)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	details, err := handler.service.Post(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handler.respondErr(w, err)
		return
	}
	if details.Comments == nil {
		details.Comments = []localstore.Comment{}
	}
	pkg.WriteJSON(w, http.StatusOK, details)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !handler.decodeBody(w, r, &req) {
		return
	}

	post, err := handler.service.UpdatePost(r.Context(), mux.Vars(r)["id"], req.Title, req.Content)
	if err != nil {
		handler.respondErr(w, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, post)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := handler.service.DeletePost(r.Context(), id); err != nil {
		handler.respondErr(w, err)
		return
	}

	log.Debugf("post deleted: %s", id)
	pkg.WriteJSON(w, http.StatusOK, deletedResponse{Deleted: id})
}

func (handler *Handler) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	state, err := handler.service.ToggleLike(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handler.respondErr(w, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, state)
}

func (handler *Handler) handleComments(w http.ResponseWriter, r *http.Request) {
	comments, err := handler.service.Comments(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handler.respondErr(w, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, commentsResponse{Comments: comments, Total: len(comments)})
}

func (handler *Handler) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if !handler.decodeBody(w, r, &req) {
		return
	}

	comment, err := handler.service.AddComment(r.Context(), mux.Vars(r)["id"], req.Content)
	if err != nil {
		handler.respondErr(w, err)
		return
	}
	pkg.WriteJSON(w, http.StatusCreated, comment)
}

func (handler *Handler) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if !handler.decodeBody(w, r, &req) {
		return
	}

	comment, err := handler.service.UpdateComment(r.Context(), mux.Vars(r)["id"], req.Content)
	if err != nil {
		handler.respondErr(w, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, comment)
}

func (handler *Handler) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := handler.service.DeleteComment(r.Context(), id); err != nil {
		handler.respondErr(w, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, deletedResponse{Deleted: id})
}

func (handler *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			errpage.RespondCode(w, errcatalog.CodePayloadTooLarge)
			return false
		}
		log.Tracef("[%s] %s, invalid body: %s", r.Method, r.URL.Path, err)
		errpage.RespondStatus(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	return true
}

func (handler *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotLoggedIn):
		errpage.RespondStatus(w, http.StatusUnauthorized, "Please log in first.")
	case errors.Is(err, ErrInvalidCredentials):
		errpage.RespondStatus(w, http.StatusUnauthorized, "Invalid email or password.")
	case errors.Is(err, ErrUsernameTaken):
		errpage.RespondStatus(w, http.StatusConflict, "Username is already taken.")
	case errors.Is(err, ErrEmailTaken):
		errpage.RespondStatus(w, http.StatusConflict, "Email is already registered.")
	case errors.Is(err, ErrNotAuthor):
		errpage.RespondStatus(w, http.StatusForbidden, "Only the author can do that.")
	case errors.Is(err, ErrBlogNotFound), errors.Is(err, ErrCommentNotFound):
		errpage.Respond(w, errcatalog.Wrap(errcatalog.CodeResourceNotFound, err), handler.debug)
	case errors.Is(err, ErrInvalidInput):
		errpage.Write(w, errpage.Response{
			StatusCode: http.StatusBadRequest,
			// validation messages are written for users
			Message: userFacingValidation(err),
		})
	default:
		errpage.Respond(w, err, handler.debug)
	}
}

func userFacingValidation(err error) string {
	msg, found := strings.CutPrefix(err.Error(), ErrInvalidInput.Error()+": ")
	if !found || msg == "" {
		return "Invalid input."
	}
	return msg
}

func toUserResponse(user *localstore.User) *userResponse {
	return &userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}
