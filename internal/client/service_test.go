package client_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/billable/internal/client"
	"github.com/MrJamesThe3rd/billable/internal/validate"
)

func validParams() client.Params {
	return client.Params{
		Name:    "Acme Corp",
		Email:   "billing@acme.test",
		Address: "1 Main St",
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    client.Params
		setupMock func(m *client.MockRepository)
		wantMsgs  []string
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "Success",
			params: validParams(),
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().
					CreateClient(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *client.Client) error {
						c.ID = uuid.New()
						c.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name:   "AllFieldsMissing",
			params: client.Params{},
			wantMsgs: []string{
				"Name is required",
				"Email is required",
				"Address is required",
			},
			wantErr: true,
		},
		{
			name: "InvalidEmail",
			params: client.Params{
				Name:    "Acme Corp",
				Email:   "not-an-email",
				Address: "1 Main St",
			},
			wantMsgs: []string{"Invalid email format"},
			wantErr:  true,
		},
		{
			name:   "RepoError",
			params: validParams(),
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().
					CreateClient(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := client.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := client.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				if len(tt.wantMsgs) > 0 {
					var verrs validate.Errors
					require.ErrorAs(t, err, &verrs)
					for _, msg := range tt.wantMsgs {
						assert.Contains(t, verrs, msg)
					}
				}

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.params.Name, got.Name)
		})
	}
}

func TestService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := client.NewMockRepository(ctrl)
	svc := client.NewService(repo)

	id := uuid.New()
	repo.EXPECT().GetClient(gomock.Any(), id).Return(nil, client.ErrNotFound)

	got, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, client.ErrNotFound)
	assert.Nil(t, got)
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := client.NewMockRepository(ctrl)
	svc := client.NewService(repo)

	// Out-of-range paging values are normalized before hitting the store.
	repo.EXPECT().ListClients(gomock.Any(), 1, 10).Return([]*client.Client{}, nil)

	got, err := svc.List(context.Background(), -3, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := client.NewMockRepository(ctrl)
	svc := client.NewService(repo)

	id := uuid.New()
	existing, err := client.New("Old Name", "old@acme.test", "2 Side St")
	require.NoError(t, err)
	existing.ID = id

	repo.EXPECT().GetClient(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().UpdateClient(gomock.Any(), existing).Return(nil)

	got, err := svc.Update(context.Background(), id, validParams())
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", got.Name)
	assert.NotNil(t, got.UpdatedAt)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := client.NewMockRepository(ctrl)
	svc := client.NewService(repo)

	id := uuid.New()
	existing, err := client.New("Acme Corp", "billing@acme.test", "1 Main St")
	require.NoError(t, err)
	existing.ID = id

	repo.EXPECT().GetClient(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().
		UpdateClient(gomock.Any(), existing).
		DoAndReturn(func(_ context.Context, c *client.Client) error {
			assert.True(t, c.IsDeleted)
			return nil
		})

	require.NoError(t, svc.Delete(context.Background(), id))
}

func TestService_Delete_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := client.NewMockRepository(ctrl)
	svc := client.NewService(repo)

	id := uuid.New()
	repo.EXPECT().GetClient(gomock.Any(), id).Return(nil, client.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), id), client.ErrNotFound)
}
