package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
	"github.com/aradsms/contactbook/internal/contact_service/repository/memory"
)

// --- Mocks ---

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) List(ctx context.Context, f domain.Filter) ([]*domain.Contact, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) Update(ctx context.Context, c *domain.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

// --- Test Setup ---

type contactAppTestComponents struct {
	app       *Application
	mockRepo  *MockContactRepository
	publisher *MockPublisher
}

func setupContactAppTest(t *testing.T) contactAppTestComponents {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockRepo := new(MockContactRepository)
	publisher := new(MockPublisher)
	return contactAppTestComponents{
		app:       NewApplication(mockRepo, publisher, logger),
		mockRepo:  mockRepo,
		publisher: publisher,
	}
}

func TestApplication_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("TrimsStoresAndPublishes", func(t *testing.T) {
		comps := setupContactAppTest(t)
		comps.mockRepo.On("Create", ctx, mock.MatchedBy(func(c *domain.Contact) bool {
			return c.Name == "Alice" && c.Phone == "111" && c.Email == "a@x.com"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Contact).ID = 1
		}).Return(nil).Once()

		var payload []byte
		comps.publisher.On("Publish", ctx, SubjectContactCreated, mock.Anything).
			Run(func(args mock.Arguments) { payload = args.Get(2).([]byte) }).
			Return(nil).Once()

		ct, err := comps.app.Add(ctx, " Alice ", " 111", "a@x.com ")
		require.NoError(t, err)
		assert.Equal(t, &domain.Contact{ID: 1, Name: "Alice", Phone: "111", Email: "a@x.com"}, ct)

		var evt ContactEvent
		require.NoError(t, json.Unmarshal(payload, &evt))
		assert.Equal(t, int64(1), evt.ContactID)
		assert.Equal(t, "Alice", evt.Contact.Name)
		assert.False(t, evt.OccurredAt.IsZero())

		comps.mockRepo.AssertExpectations(t)
		comps.publisher.AssertExpectations(t)
	})

	t.Run("ValidationOrder", func(t *testing.T) {
		comps := setupContactAppTest(t)
		cases := []struct {
			name, phone, email string
			field              string
		}{
			{"", "123", "a@b.com", "name"},
			{"A", "12a", "a@b.com", "phone"},
			{"A", "123", "", "email"},
			{"", "", "", "name"},
			{"A", "", "", "phone"},
		}
		for _, c := range cases {
			_, err := comps.app.Add(ctx, c.name, c.phone, c.email)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "%+v", c)
			assert.Equal(t, c.field, verr.Field)
		}
		comps.mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		comps.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("StorageErrorNotPublished", func(t *testing.T) {
		comps := setupContactAppTest(t)
		storeErr := domain.NewStorageError("create", errors.New("disk full"))
		comps.mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Contact")).Return(storeErr).Once()

		ct, err := comps.app.Add(ctx, "A", "1", "e")
		assert.Nil(t, ct)
		assert.ErrorIs(t, err, domain.ErrStorage)
		comps.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PublishFailureDoesNotFailAdd", func(t *testing.T) {
		comps := setupContactAppTest(t)
		comps.mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Contact")).Return(nil).Once()
		comps.publisher.On("Publish", ctx, SubjectContactCreated, mock.Anything).Return(errors.New("nats down")).Once()

		_, err := comps.app.Add(ctx, "A", "1", "e")
		assert.NoError(t, err)
	})
}

func TestApplication_WithoutPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := NewApplication(memory.NewContactRepository(), nil, logger)
	ctx := context.Background()

	ct, err := app.Add(ctx, "A", "1", "e")
	require.NoError(t, err)
	_, err = app.Update(ctx, ct.ID, "B", "2", "f")
	require.NoError(t, err)
	require.NoError(t, app.Delete(ctx, ct.ID))
}

func TestApplication_List(t *testing.T) {
	comps := setupContactAppTest(t)
	ctx := context.Background()
	f := domain.Filter{Search: "ali", Scope: domain.ScopeName}
	want := []*domain.Contact{{ID: 1, Name: "Alice", Phone: "111", Email: "a@x.com"}}
	comps.mockRepo.On("List", ctx, f).Return(want, nil).Once()

	got, err := comps.app.List(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	comps.mockRepo.AssertExpectations(t)
}

func TestApplication_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("NoValidationNoTrim", func(t *testing.T) {
		comps := setupContactAppTest(t)
		want := &domain.Contact{ID: 3, Name: " ", Phone: "not digits", Email: ""}
		comps.mockRepo.On("Update", ctx, want).Return(nil).Once()
		comps.publisher.On("Publish", ctx, SubjectContactUpdated, mock.Anything).Return(nil).Once()

		got, err := comps.app.Update(ctx, 3, " ", "not digits", "")
		require.NoError(t, err)
		assert.Equal(t, want, got)
		comps.mockRepo.AssertExpectations(t)
		comps.publisher.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		comps := setupContactAppTest(t)
		comps.mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.Contact")).Return(domain.ErrNotFound).Once()

		_, err := comps.app.Update(ctx, 9, "A", "1", "e")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		comps.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestApplication_Delete(t *testing.T) {
	comps := setupContactAppTest(t)
	ctx := context.Background()
	comps.mockRepo.On("Delete", ctx, int64(4)).Return(nil).Once()
	comps.publisher.On("Publish", ctx, SubjectContactDeleted, mock.Anything).Return(nil).Once()

	require.NoError(t, comps.app.Delete(ctx, 4))
	comps.mockRepo.AssertExpectations(t)
	comps.publisher.AssertExpectations(t)
}

func TestApplication_ExportContacts(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := NewApplication(memory.NewContactRepository(), nil, logger)
	ctx := context.Background()
	_, err := app.Add(ctx, "Alice", "0111", "a@x.com")
	require.NoError(t, err)
	_, err = app.Add(ctx, "Bob, Jr.", "222", "b@x.com")
	require.NoError(t, err)

	t.Run("CSV", func(t *testing.T) {
		var buf bytes.Buffer
		n, err := app.ExportContacts(ctx, &buf, ExportCSV, domain.Filter{})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, "ID,Name,Phone,Email\n1,Alice,0111,a@x.com\n2,\"Bob, Jr.\",222,b@x.com\n", buf.String())
	})

	t.Run("CSVFiltered", func(t *testing.T) {
		var buf bytes.Buffer
		n, err := app.ExportContacts(ctx, &buf, ExportCSV, domain.Filter{Search: "bob", Scope: domain.ScopeName})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.NotContains(t, buf.String(), "Alice")
	})

	t.Run("XLSX", func(t *testing.T) {
		var buf bytes.Buffer
		n, err := app.ExportContacts(ctx, &buf, ExportXLSX, domain.Filter{})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		f, err := excelize.OpenReader(&buf)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("Contacts")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"ID", "Name", "Phone", "Email"}, rows[0])
		assert.Equal(t, []string{"1", "Alice", "0111", "a@x.com"}, rows[1])
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		_, err := app.ExportContacts(ctx, io.Discard, ExportFormat("pdf"), domain.Filter{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportCSV, f)

	f, err = ParseExportFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, ExportXLSX, f)

	_, err = ParseExportFormat("pdf")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
