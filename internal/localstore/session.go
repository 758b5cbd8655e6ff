package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/localblog/internal/kvstore"
)

// Session is the single current-user slot. No expiry, no token.
type Session struct {
	backend kvstore.Backend
	corrupt corruptFunc
}

// Get returns nil when nobody is logged in.
func (s *Session) Get(ctx context.Context) (*User, error) {
	stored, exists, err := s.backend.GetItem(ctx, KeyCurrentUser)
	if err != nil {
		return nil, wrapBackendErr("read", KeyCurrentUser, err)
	}
	if !exists {
		return nil, nil
	}

	var user *User
	if err := json.Unmarshal([]byte(stored), &user); err != nil {
		s.corrupt(KeyCurrentUser, err)
		return nil, nil
	}
	return user, nil
}

// Set stores user in the slot, a nil user clears it.
func (s *Session) Set(ctx context.Context, user *User) error {
	if user == nil {
		return wrapBackendErr("remove", KeyCurrentUser, s.backend.RemoveItem(ctx, KeyCurrentUser))
	}

	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode current user: %w", err)
	}
	return wrapBackendErr("write", KeyCurrentUser, s.backend.SetItem(ctx, KeyCurrentUser, string(encoded)))
}
