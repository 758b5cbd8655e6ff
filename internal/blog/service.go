package blog

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/localblog/internal/localstore"
	"github.com/2beens/localblog/internal/telemetry/metrics"
	"github.com/2beens/localblog/internal/telemetry/tracing"
)

var (
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotAuthor          = errors.New("only the author can change this")
	ErrBlogNotFound       = errors.New("blog not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrInvalidInput       = errors.New("invalid input")
)

const (
	minUsernameLen = 3
	maxUsernameLen = 32
	minPasswordLen = 6
	maxTitleLen    = 200
)

type SignupParams struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PostDetails is a post with everything its page shows.
type PostDetails struct {
	localstore.Blog
	LikeCount int                  `json:"likeCount"`
	Liked     bool                 `json:"liked"`
	Comments  []localstore.Comment `json:"comments"`
}

type LikeState struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}

type Service struct {
	store          *localstore.Store
	metricsManager *metrics.Manager
	// remove comments and likes together with their post
	cascadeDeletes bool

	now   func() time.Time
	newID func() string
}

func NewService(store *localstore.Store, metricsManager *metrics.Manager, cascadeDeletes bool) *Service {
	return &Service{
		store:          store,
		metricsManager: metricsManager,
		cascadeDeletes: cascadeDeletes,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Signup registers a new user and logs them in.
func (s *Service) Signup(ctx context.Context, params SignupParams) (*localstore.User, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogService.Signup")
	defer span.End()

	username := strings.TrimSpace(params.Username)
	email := strings.TrimSpace(params.Email)

	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return nil, invalid("username must have between %d and %d characters", minUsernameLen, maxUsernameLen)
	}
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return nil, invalid("email address is not valid")
	}
	if utf8.RuneCountInString(params.Password) < minPasswordLen {
		return nil, invalid("password must have at least %d characters", minPasswordLen)
	}

	user := localstore.User{
		ID:        s.newID(),
		Username:  username,
		Email:     email,
		Password:  params.Password,
		CreatedAt: s.now().UTC(),
	}

	err := s.store.Users.AppendIf(ctx, user, func(existing []localstore.User) error {
		for _, u := range existing {
			if strings.EqualFold(u.Username, username) {
				return ErrUsernameTaken
			}
			if strings.EqualFold(u.Email, email) {
				return ErrEmailTaken
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	if err := s.store.Session.Set(ctx, &user); err != nil {
		return nil, fmt.Errorf("signup, set session: %w", err)
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterSignups.Inc()
	}
	log.Debugf("new user signed up: %s", user.Username)

	return &user, nil
}

// Login compares the stored credentials as they are and takes the session slot.
func (s *Service) Login(ctx context.Context, email, password string) (*localstore.User, error) {
	users, err := s.store.Users.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	email = strings.TrimSpace(email)
	for _, u := range users {
		if strings.EqualFold(u.Email, email) && u.Password == password {
			if err := s.store.Session.Set(ctx, &u); err != nil {
				return nil, fmt.Errorf("login, set session: %w", err)
			}
			return &u, nil
		}
	}

	return nil, ErrInvalidCredentials
}

func (s *Service) Logout(ctx context.Context) error {
	return s.store.Session.Set(ctx, nil)
}

// CurrentUser returns nil when nobody is logged in.
func (s *Service) CurrentUser(ctx context.Context) (*localstore.User, error) {
	return s.store.Session.Get(ctx)
}

func (s *Service) requireUser(ctx context.Context) (*localstore.User, error) {
	user, err := s.store.Session.Get(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotLoggedIn
	}
	return user, nil
}

func validatePost(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return "", "", invalid("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", "", invalid("title can have at most %d characters", maxTitleLen)
	}
	if content == "" {
		return "", "", invalid("content is required")
	}
	return title, content, nil
}

func (s *Service) CreatePost(ctx context.Context, title, content string) (*localstore.Blog, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogService.CreatePost")
	defer span.End()

	user, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	title, content, err = validatePost(title, content)
	if err != nil {
		return nil, err
	}

	post := localstore.Blog{
		ID:         s.newID(),
		Title:      title,
		Content:    content,
		AuthorID:   user.ID,
		AuthorName: user.Username,
		CreatedAt:  s.now().UTC(),
	}
	span.SetAttributes(attribute.String("blog.id", post.ID))

	if err := s.store.Blogs.Append(ctx, post); err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("create post: %w", err)
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterPosts.Inc()
	}

	return &post, nil
}

// authoredPost loads the post and checks that the logged-in user wrote it.
func (s *Service) authoredPost(ctx context.Context, id string) (*localstore.Blog, error) {
	user, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	post, found, err := s.store.Blogs.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrBlogNotFound
	}
	if post.AuthorID != user.ID {
		return nil, ErrNotAuthor
	}

	return &post, nil
}

func (s *Service) UpdatePost(ctx context.Context, id, title, content string) (*localstore.Blog, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogService.UpdatePost")
	span.SetAttributes(attribute.String("blog.id", id))
	defer span.End()

	post, err := s.authoredPost(ctx, id)
	if err != nil {
		return nil, err
	}

	title, content, err = validatePost(title, content)
	if err != nil {
		return nil, err
	}

	updatedAt := s.now().UTC()
	err = s.store.Blogs.Update(ctx, id, map[string]any{
		"title":     title,
		"content":   content,
		"updatedAt": updatedAt,
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("update post %s: %w", id, err)
	}

	post.Title = title
	post.Content = content
	post.UpdatedAt = &updatedAt

	return post, nil
}

// DeletePost removes the post. Its comments and likes are kept unless cascading deletes are on.
func (s *Service) DeletePost(ctx context.Context, id string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogService.DeletePost")
	span.SetAttributes(attribute.String("blog.id", id))
	defer span.End()

	if _, err := s.authoredPost(ctx, id); err != nil {
		return err
	}

	if err := s.store.Blogs.Remove(ctx, id); err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("delete post %s: %w", id, err)
	}

	if !s.cascadeDeletes {
		return nil
	}

	removed, err := s.store.Comments.RemoveWhere(ctx, func(c localstore.Comment) bool {
		return c.BlogID == id
	})
	if err != nil {
		return fmt.Errorf("delete comments of post %s: %w", id, err)
	}
	if err := s.store.Likes.RemoveForBlog(ctx, id); err != nil {
		return fmt.Errorf("delete likes of post %s: %w", id, err)
	}
	log.Tracef("post %s deleted with %d comments", id, removed)

	return nil
}

// Posts returns every post, most recent first.
func (s *Service) Posts(ctx context.Context) ([]localstore.Blog, error) {
	return s.store.Blogs.ReadAll(ctx)
}

func (s *Service) PostsByAuthor(ctx context.Context, authorID string) ([]localstore.Blog, error) {
	all, err := s.store.Blogs.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	posts := make([]localstore.Blog, 0)
	for _, p := range all {
		if p.AuthorID == authorID {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

// MyPosts lists the posts of the logged-in user.
func (s *Service) MyPosts(ctx context.Context) ([]localstore.Blog, error) {
	user, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.PostsByAuthor(ctx, user.ID)
}

func (s *Service) Post(ctx context.Context, id string) (*PostDetails, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogService.Post")
	span.SetAttributes(attribute.String("blog.id", id))
	defer span.End()

	post, found, err := s.store.Blogs.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrBlogNotFound
	}

	details := &PostDetails{Blog: post}

	if details.LikeCount, err = s.store.Likes.CountFor(ctx, id); err != nil {
		return nil, err
	}

	user, err := s.store.Session.Get(ctx)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if details.Liked, err = s.store.Likes.IsLiked(ctx, id, user.ID); err != nil {
			return nil, err
		}
	}

	if details.Comments, err = s.store.CommentsForBlog(ctx, id); err != nil {
		return nil, err
	}

	return details, nil
}

func (s *Service) ToggleLike(ctx context.Context, blogID string) (LikeState, error) {
	user, err := s.requireUser(ctx)
	if err != nil {
		return LikeState{}, err
	}
	if err := s.ensurePost(ctx, blogID); err != nil {
		return LikeState{}, err
	}

	liked, err := s.store.Likes.Toggle(ctx, blogID, user.ID)
	if err != nil {
		return LikeState{}, fmt.Errorf("toggle like: %w", err)
	}
	count, err := s.store.Likes.CountFor(ctx, blogID)
	if err != nil {
		return LikeState{}, err
	}

	return LikeState{Liked: liked, Count: count}, nil
}

func (s *Service) ensurePost(ctx context.Context, blogID string) error {
	_, found, err := s.store.Blogs.Find(ctx, blogID)
	if err != nil {
		return err
	}
	if !found {
		return ErrBlogNotFound
	}
	return nil
}

func (s *Service) Comments(ctx context.Context, blogID string) ([]localstore.Comment, error) {
	if err := s.ensurePost(ctx, blogID); err != nil {
		return nil, err
	}
	return s.store.CommentsForBlog(ctx, blogID)
}

func validateComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", invalid("comment is empty")
	}
	return content, nil
}

func (s *Service) AddComment(ctx context.Context, blogID, content string) (*localstore.Comment, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogService.AddComment")
	span.SetAttributes(attribute.String("blog.id", blogID))
	defer span.End()

	user, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if content, err = validateComment(content); err != nil {
		return nil, err
	}
	if err := s.ensurePost(ctx, blogID); err != nil {
		return nil, err
	}

	comment := localstore.Comment{
		ID:        s.newID(),
		BlogID:    blogID,
		UserID:    user.ID,
		Username:  user.Username,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Comments.Append(ctx, comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterComments.Inc()
	}

	return &comment, nil
}

func (s *Service) authoredComment(ctx context.Context, id string) (*localstore.Comment, error) {
	user, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	comment, found, err := s.store.Comments.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrCommentNotFound
	}
	if comment.UserID != user.ID {
		return nil, ErrNotAuthor
	}

	return &comment, nil
}

func (s *Service) UpdateComment(ctx context.Context, id, content string) (*localstore.Comment, error) {
	comment, err := s.authoredComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if content, err = validateComment(content); err != nil {
		return nil, err
	}

	updatedAt := s.now().UTC()
	err = s.store.Comments.Update(ctx, id, map[string]any{
		"content":   content,
		"updatedAt": updatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("update comment %s: %w", id, err)
	}

	comment.Content = content
	comment.UpdatedAt = &updatedAt

	return comment, nil
}

func (s *Service) DeleteComment(ctx context.Context, id string) error {
	if _, err := s.authoredComment(ctx, id); err != nil {
		return err
	}
	if err := s.store.Comments.Remove(ctx, id); err != nil {
		return fmt.Errorf("delete comment %s: %w", id, err)
	}
	return nil
}
