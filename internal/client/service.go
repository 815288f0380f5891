package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/billable/internal/paging"
	"github.com/MrJamesThe3rd/billable/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=client
type Repository interface {
	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, id uuid.UUID) (*Client, error)
	ListClients(ctx context.Context, page, pageSize int) ([]*Client, error)
	UpdateClient(ctx context.Context, c *Client) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Params struct {
	Name    string `validate:"required,max=100"`
	Email   string `validate:"required,email"`
	Address string `validate:"required,max=200"`
}

var messages = validate.Messages{
	"Name.required":    "Name is required",
	"Name.max":         "Name cannot exceed 100 characters",
	"Email.required":   "Email is required",
	"Email.email":      "Invalid email format",
	"Address.required": "Address is required",
	"Address.max":      "Address cannot exceed 200 characters",
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetClient(ctx, id)
}

// List returns one page of non-deleted clients ordered by name. An empty
// page is a valid result, not an error.
func (s *Service) List(ctx context.Context, page, pageSize int) ([]*Client, error) {
	page, pageSize = paging.Normalize(page, pageSize)
	return s.repo.ListClients(ctx, page, pageSize)
}

func (s *Service) Create(ctx context.Context, params Params) (*Client, error) {
	if err := validate.Struct(params, messages); err != nil {
		return nil, err
	}

	c, err := New(params.Name, params.Email, params.Address)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateClient(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params Params) (*Client, error) {
	if err := validate.Struct(params, messages); err != nil {
		return nil, err
	}

	c, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.Update(params.Name, params.Email, params.Address); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateClient(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Delete marks the client as deleted. The row stays in place and the
// client's invoices are untouched.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return err
	}

	c.MarkAsDeleted()

	return s.repo.UpdateClient(ctx, c)
}
