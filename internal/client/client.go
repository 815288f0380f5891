package client

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a client id does not resolve.
	ErrNotFound = errors.New("client not found")

	// ErrMissingField is returned when a client is constructed or updated
	// without a name, email or address.
	ErrMissingField = errors.New("name, email and address are required")
)

// Client is a billable party. It owns invoices by back-reference only and
// never mutates them.
type Client struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt *time.Time
	IsDeleted bool
}

func New(name, email, address string) (*Client, error) {
	if name == "" || email == "" || address == "" {
		return nil, ErrMissingField
	}

	return &Client{
		Name:    name,
		Email:   email,
		Address: address,
	}, nil
}

// Update replaces the client's fields. Format checks (email shape, length
// limits) belong to the validation layer, not here.
func (c *Client) Update(name, email, address string) error {
	if name == "" || email == "" || address == "" {
		return ErrMissingField
	}

	c.Name = name
	c.Email = email
	c.Address = address
	c.touch()

	return nil
}

// MarkAsDeleted flags the client as logically removed. Idempotent.
// The client's invoices are not cascaded.
func (c *Client) MarkAsDeleted() {
	c.IsDeleted = true
	c.touch()
}

func (c *Client) touch() {
	now := time.Now().UTC()
	c.UpdatedAt = &now
}
