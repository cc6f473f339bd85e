// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"net/url"
)

// User is the authenticated GitHub account, from GET /user.
type User struct {
	// Login is the account name.
	Login string `json:"login"`

	// ID is the immutable numeric account id.
	ID int64 `json:"id"`

	// Name is the display name. May be empty.
	Name string `json:"name"`
}

// NoreplyEmail returns the account's GitHub noreply address, the form
// GitHub associates with web-UI commits. Using it for git identity
// keeps the real address out of commit metadata and still attributes
// commits to the account.
func (user *User) NoreplyEmail() string {
	return fmt.Sprintf("%d+%s@users.noreply.github.com", user.ID, user.Login)
}

// User fetches the authenticated user. This is the cheapest
// authenticated call and doubles as token validation: a bad token
// yields a 401 *APIError.
func (client *Client) User(ctx context.Context) (*User, error) {
	var user User
	if err := client.get(ctx, "/user", &user); err != nil {
		return nil, fmt.Errorf("fetching authenticated user: %w", err)
	}
	return &user, nil
}

// CloneURL builds the HTTPS clone URL for owner/name. With a token it
// carries x-access-token basic auth, the form GitHub accepts for both
// PATs and App installation tokens; without one it is anonymous. The
// token ends up in .git/config of the clone, nowhere else.
func CloneURL(owner, name, token string) string {
	if token == "" {
		return fmt.Sprintf("https://github.com/%s/%s.git", owner, name)
	}
	return fmt.Sprintf("https://x-access-token:%s@github.com/%s/%s.git", url.QueryEscape(token), owner, name)
}
