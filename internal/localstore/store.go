// Package localstore keeps the blog's users, session, posts, likes and
// comments as whole-collection JSON blobs in a kvstore.Backend.
package localstore

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/localblog/internal/kvstore"
	"github.com/2beens/localblog/internal/telemetry/metrics"
)

const (
	KeyUsers       = "blogUsers"
	KeyCurrentUser = "currentUser"
	KeyBlogs       = "blogs"
	KeyLikes       = "blogLikes"
	KeyComments    = "blogComments"
)

var ErrInvalidPatch = errors.New("patch must encode to a JSON object")

type Store struct {
	Users    *Collection[User]
	Blogs    *Collection[Blog]
	Comments *Collection[Comment]
	Session  *Session
	Likes    *Likes
}

// NewStore builds the store over backend. metricsManager may be nil.
func NewStore(backend kvstore.Backend, metricsManager *metrics.Manager) *Store {
	corrupt := corruptionReporter(metricsManager)
	return &Store{
		Users:    newCollection[User](backend, KeyUsers, false, corrupt),
		Blogs:    newCollection[Blog](backend, KeyBlogs, true, corrupt),
		Comments: newCollection[Comment](backend, KeyComments, false, corrupt),
		Session: &Session{
			backend: backend,
			corrupt: corrupt,
		},
		Likes: &Likes{
			backend: backend,
			corrupt: corrupt,
		},
	}
}

// CommentsForBlog returns the comments of one post in storage order.
func (s *Store) CommentsForBlog(ctx context.Context, blogID string) ([]Comment, error) {
	all, err := s.Comments.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	forBlog := make([]Comment, 0)
	for _, c := range all {
		if c.BlogID == blogID {
			forBlog = append(forBlog, c)
		}
	}
	return forBlog, nil
}

type corruptFunc func(key string, err error)

func corruptionReporter(metricsManager *metrics.Manager) corruptFunc {
	return func(key string, err error) {
		log.Warnf("localstore: unparsable data under [%s], skipped: %s", key, err)
		if metricsManager != nil {
			metricsManager.CounterCorruptReads.WithLabelValues(key).Inc()
		}
	}
}

func wrapBackendErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %s: %w", op, key, err)
}
