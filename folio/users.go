package folio

import (
	"context"
	"encoding/json"
	"fmt"
)

// Convenience wrappers for mod-users. These are thin layers over the generic
// verbs and the iterator; they exist so common operations do not require
// callers to know endpoint paths and envelope keys.

const (
	usersPath   = "/users"
	blUsersPath = "/bl-users/by-id"
	permsPath   = "/perms/users"
)

// Users fetches every user matching the CQL query, paginating internally.
// An empty query returns all users.
func (c *Client) Users(ctx context.Context, query string) ([]User, error) {
	return collect[User](c.IterUsers(ctx, query))
}

// IterUsers iterates users matching the CQL query one record at a time.
func (c *Client) IterUsers(ctx context.Context, query string) *Iterator {
	return c.Iter(ctx, usersPath, "users", query, 0)
}

// UserByID fetches a single user by UUID from the storage-backed endpoint.
func (c *Client) UserByID(ctx context.Context, id string) (*User, error) {
	body, err := c.Get(ctx, usersPath+"/"+id, "", "", 0)
	if err != nil {
		return nil, err
	}
	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("folio: failed to decode user: %w", err)
	}
	return &user, nil
}

// UserBLByID fetches a user through the business logic module, which
// resolves the patron group and permissions alongside the raw record.
func (c *Client) UserBLByID(ctx context.Context, id string) (*User, error) {
	body, err := c.Get(ctx, blUsersPath+"/"+id, "user", "", 0)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("folio: business logic response missing user: %w", ErrNotFound)
	}
	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("folio: failed to decode user: %w", err)
	}
	return &user, nil
}

// UserByBarcode fetches the user carrying the given barcode. Barcodes are
// expected to be unique; more than one match is reported as an error.
func (c *Client) UserByBarcode(ctx context.Context, barcode string) (*User, error) {
	body, err := c.Get(ctx, usersPath, "users", fmt.Sprintf("barcode==%s", barcode), 2)
	if err != nil {
		return nil, err
	}
	var users []User
	if body != nil {
		if err := json.Unmarshal(body, &users); err != nil {
			return nil, fmt.Errorf("folio: failed to decode users: %w", err)
		}
	}
	switch len(users) {
	case 0:
		return nil, fmt.Errorf("folio: no user with barcode %s: %w", barcode, ErrNotFound)
	case 1:
		return &users[0], nil
	default:
		return nil, fmt.Errorf("folio: multiple users share barcode %s", barcode)
	}
}

// CreateUser creates a user and the empty permissions set the platform
// expects every user to have. The same fields the FOLIO UI requires are
// enforced here.
func (c *Client) CreateUser(ctx context.Context, user User) (*User, error) {
	if user.Username == "" || user.PatronGroup == "" {
		return nil, fmt.Errorf("folio: username and patronGroup are required")
	}
	if user.Personal == nil || user.Personal.LastName == "" ||
		user.Personal.Email == "" || user.Personal.PreferredContactTypeID == "" {
		return nil, fmt.Errorf("folio: personal lastName, email and preferredContactTypeId are required")
	}

	body, err := c.Post(ctx, usersPath, user)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("folio: create user returned no record")
	}
	var created User
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("folio: failed to decode created user: %w", err)
	}

	perms := Permissions{UserID: created.ID, Permissions: []string{}}
	if _, err := c.Post(ctx, permsPath, perms); err != nil {
		return nil, fmt.Errorf("folio: user %s created but permissions set failed: %w", created.ID, err)
	}

	c.logger.Debug().
		Str("user_id", created.ID).
		Str("username", created.Username).
		Msg("created user")
	return &created, nil
}

// UpdateUser replaces the user record at the given UUID.
func (c *Client) UpdateUser(ctx context.Context, id string, user User) error {
	_, err := c.Put(ctx, usersPath+"/"+id, user)
	return err
}

// DeleteUser removes the user record at the given UUID.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.Delete(ctx, usersPath+"/"+id)
}
