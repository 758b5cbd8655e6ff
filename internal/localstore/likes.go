package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/2beens/localblog/internal/kvstore"
)

const likeKeySeparator = "_"

// Likes maps "<blogId>_<userId>" to true. A missing key means not liked,
// un-liking deletes the key instead of storing false.
type Likes struct {
	backend kvstore.Backend
	corrupt corruptFunc
}

func likeKey(blogID, userID string) string {
	return blogID + likeKeySeparator + userID
}

// Toggle flips the like and returns the new state.
func (l *Likes) Toggle(ctx context.Context, blogID, userID string) (bool, error) {
	key := likeKey(blogID, userID)
	liked := false

	err := l.backend.Update(ctx, KeyLikes, func(current string, exists bool) (string, error) {
		likes := l.decode(current, exists)
		if truthy(likes[key]) {
			delete(likes, key)
			liked = false
		} else {
			likes[key] = true
			liked = true
		}

		encoded, err := json.Marshal(likes)
		if err != nil {
			return "", fmt.Errorf("encode likes: %w", err)
		}
		return string(encoded), nil
	})
	if err != nil {
		return false, wrapBackendErr("write", KeyLikes, err)
	}

	return liked, nil
}

func (l *Likes) IsLiked(ctx context.Context, blogID, userID string) (bool, error) {
	likes, err := l.read(ctx)
	if err != nil {
		return false, err
	}
	return truthy(likes[likeKey(blogID, userID)]), nil
}

// CountFor counts the users liking blogID.
func (l *Likes) CountFor(ctx context.Context, blogID string) (int, error) {
	likes, err := l.read(ctx)
	if err != nil {
		return 0, err
	}

	prefix := blogID + likeKeySeparator
	count := 0
	for key := range likes {
		if strings.HasPrefix(key, prefix) {
			count++
		}
	}
	return count, nil
}

// RemoveForBlog drops every like of blogID.
func (l *Likes) RemoveForBlog(ctx context.Context, blogID string) error {
	prefix := blogID + likeKeySeparator
	err := l.backend.Update(ctx, KeyLikes, func(current string, exists bool) (string, error) {
		likes := l.decode(current, exists)
		removed := 0
		for key := range likes {
			if strings.HasPrefix(key, prefix) {
				delete(likes, key)
				removed++
			}
		}
		if removed == 0 {
			return "", kvstore.ErrUnchanged
		}

		encoded, err := json.Marshal(likes)
		if err != nil {
			return "", fmt.Errorf("encode likes: %w", err)
		}
		return string(encoded), nil
	})
	return wrapBackendErr("write", KeyLikes, err)
}

func (l *Likes) read(ctx context.Context) (map[string]any, error) {
	stored, exists, err := l.backend.GetItem(ctx, KeyLikes)
	if err != nil {
		return nil, wrapBackendErr("read", KeyLikes, err)
	}
	return l.decode(stored, exists), nil
}

func (l *Likes) decode(stored string, exists bool) map[string]any {
	likes := map[string]any{}
	if !exists {
		return likes
	}
	if err := json.Unmarshal([]byte(stored), &likes); err != nil {
		l.corrupt(KeyLikes, err)
		return map[string]any{}
	}
	if likes == nil {
		return map[string]any{}
	}
	return likes
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}
