package form_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mrops-br/financial-products/internal/app/form"
	"github.com/mrops-br/financial-products/internal/app/screen"
	"github.com/mrops-br/financial-products/internal/app/translate"
	"github.com/mrops-br/financial-products/internal/domain"
	"github.com/mrops-br/financial-products/internal/infrastructure/client"
	"github.com/mrops-br/financial-products/internal/pkg/clock"
)

// MockGateway is a mock implementation of form.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) IDExists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockGateway) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockGateway) Replace(ctx context.Context, id string, product domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, id, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockGateway) Get(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

var fixedNow = time.Date(2026, time.October, 19, 9, 30, 0, 0, time.UTC)

func validProduct() domain.Product {
	return domain.Product{
		ID:           "trj-crd",
		Name:         "Tarjeta de crédito",
		Description:  "Tarjeta de consumo bajo la modalidad de crédito",
		Logo:         "https://example.com/logo.png",
		DateRelease:  "2026-10-19",
		DateRevision: "2027-10-19",
	}
}

func fill(t *testing.T, f *form.Controller, p domain.Product) {
	t.Helper()
	require.NoError(t, f.Set(domain.FieldID, p.ID))
	require.NoError(t, f.Set(domain.FieldName, p.Name))
	require.NoError(t, f.Set(domain.FieldDescription, p.Description))
	require.NoError(t, f.Set(domain.FieldLogo, p.Logo))
	require.NoError(t, f.Set(domain.FieldDateRelease, p.DateRelease))
	require.NoError(t, f.Set(domain.FieldDateRevision, p.DateRevision))
}

func newCreate(api form.Gateway) *form.Controller {
	return form.NewCreate(api, screen.CreateRoute{}, form.WithClock(clock.NewFake(fixedNow)))
}

func TestCreate_Defaults(t *testing.T) {
	f := newCreate(new(MockGateway))

	assert.Equal(t, form.Editing, f.State())
	assert.Equal(t, domain.Product{DateRelease: "2026-10-19", DateRevision: "2027-10-19"}, f.Values())
	assert.Empty(t, f.Errors())
}

func TestCreate_Success(t *testing.T) {
	api := new(MockGateway)
	p := validProduct()
	api.On("IDExists", mock.Anything, p.ID).Return(false, nil).Once()
	api.On("Create", mock.Anything, p).Return(&p, nil).Once()

	f := newCreate(api)
	fill(t, f, p)

	res, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, form.Submitted, f.State())
	require.NotNil(t, f.Notice())
	assert.Equal(t, screen.LevelSuccess, f.Notice().Level)
	api.AssertExpectations(t)

	_, err = f.Submit(context.Background())
	assert.ErrorIs(t, err, form.ErrAlreadySubmitted)
	assert.ErrorIs(t, f.Set(domain.FieldName, "x"), form.ErrNotEditing)
}

func TestCreate_DuplicateIDStopsBeforeDates(t *testing.T) {
	api := new(MockGateway)
	p := validProduct()
	p.DateRevision = "garbage"
	api.On("IDExists", mock.Anything, p.ID).Return(true, nil).Once()

	f := newCreate(api)
	fill(t, f, p)

	res, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, domain.FieldErrors{domain.FieldID: form.MsgIDExists}, f.Errors())
	assert.Equal(t, form.Editing, f.State())
	api.AssertExpectations(t)
	api.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_IDCheckTransportFailurePropagates(t *testing.T) {
	api := new(MockGateway)
	p := validProduct()
	api.On("IDExists", mock.Anything, p.ID).
		Return(false, &client.TransportError{Op: "verify", Err: errors.New("connection refused")}).Once()

	f := newCreate(api)
	fill(t, f, p)

	res, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.FieldErrors{domain.FieldGeneral: translate.MsgGeneral}, res.Errors)
	api.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_BadDates(t *testing.T) {
	api := new(MockGateway)
	p := validProduct()
	p.DateRevision = "2027-10-20"
	api.On("IDExists", mock.Anything, p.ID).Return(false, nil).Once()

	f := newCreate(api)
	fill(t, f, p)

	res, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.MsgRevisionNotYear, res.Errors[domain.FieldDateRevision])
	assert.Equal(t, form.Editing, f.State())
	api.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_ServerRejectsShortID(t *testing.T) {
	api := new(MockGateway)
	p := validProduct()
	p.ID = "ab"
	api.On("IDExists", mock.Anything, "ab").Return(false, nil).Once()
	api.On("Create", mock.Anything, p).Return(nil, &client.ValidationError{
		Status: 400,
		Violations: []client.Violation{{
			Property: "id",
			Constraints: client.Constraints{{
				Rule:    "minLength",
				Message: "id must be longer than or equal to 3 characters",
			}},
		}},
	}).Once()

	f := newCreate(api)
	fill(t, f, p)

	res, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, "El ID debe tener al menos 3 caracteres.", f.Errors()[domain.FieldID])
	assert.Equal(t, form.Editing, f.State())
	assert.NoError(t, f.Set(domain.FieldID, "abc"))
	api.AssertExpectations(t)
}

func TestCreate_Reset(t *testing.T) {
	api := new(MockGateway)
	api.On("IDExists", mock.Anything, "x").Return(true, nil).Once()

	f := newCreate(api)
	require.NoError(t, f.Set(domain.FieldID, "x"))
	_, err := f.Submit(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, f.Errors())

	require.NoError(t, f.Reset())
	assert.Empty(t, f.Errors())
	assert.Equal(t, domain.Product{DateRelease: "2026-10-19", DateRevision: "2027-10-19"}, f.Values())
	api.AssertExpectations(t)
}

func TestCreate_SetReleaseDerivesRevision(t *testing.T) {
	f := newCreate(new(MockGateway))

	require.NoError(t, f.SetRelease("2028-02-29"))
	assert.Equal(t, "2029-02-28", f.Values().DateRevision)

	require.NoError(t, f.SetRelease("nope"))
	assert.Equal(t, "2029-02-28", f.Values().DateRevision)

	assert.ErrorIs(t, f.Set("color", "red"), form.ErrUnknownField)
}

func TestEdit_UnchangedIDSkipsCheck(t *testing.T) {
	api := new(MockGateway)
	p := validProduct()
	updated := p
	updated.Name = "Tarjeta de crédito oro"
	api.On("Replace", mock.Anything, p.ID, updated).Return(&updated, nil).Once()

	f := form.NewEdit(api, screen.EditRoute{Product: p})
	require.NoError(t, f.Set(domain.FieldName, updated.Name))

	res, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, "Producto actualizado con éxito", res.Notice.Message)
	api.AssertExpectations(t)
	api.AssertNotCalled(t, "IDExists", mock.Anything, mock.Anything)
}

func TestEdit_ChangedIDIsChecked(t *testing.T) {
	api := new(MockGateway)
	p := validProduct()
	api.On("IDExists", mock.Anything, "taken").Return(true, nil).Once()

	f := form.NewEdit(api, screen.EditRoute{Product: p})
	require.NoError(t, f.Set(domain.FieldID, "taken"))

	res, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.FieldErrors{domain.FieldID: form.MsgIDExists}, res.Errors)
	api.AssertExpectations(t)
}

func TestEdit_UpdateFailureRaisesNotice(t *testing.T) {
	api := new(MockGateway)
	p := validProduct()
	api.On("Replace", mock.Anything, p.ID, p).
		Return(nil, &client.StatusError{Op: "update", Status: 500}).Once()

	f := form.NewEdit(api, screen.EditRoute{Product: p})

	res, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, translate.MsgGeneral, res.Errors[domain.FieldGeneral])
	require.NotNil(t, f.Notice())
	assert.Equal(t, screen.LevelError, f.Notice().Level)
	assert.Equal(t, form.Editing, f.State())
	assert.ErrorIs(t, f.Reset(), form.ErrResetNotAllowed)
}

func TestEdit_Refresh(t *testing.T) {
	api := new(MockGateway)
	p := validProduct()
	fresh := p
	fresh.Name = "Nombre actualizado"
	api.On("Get", mock.Anything, p.ID).Return(&fresh, nil).Once()

	f := form.NewEdit(api, screen.EditRoute{Product: p})
	require.NoError(t, f.Refresh(context.Background()))

	assert.Equal(t, fresh, f.Values())
	v, ok := f.Record().Value()
	assert.True(t, ok)
	assert.Equal(t, fresh, v)
}

// blockingGateway holds IDExists until release is closed.
type blockingGateway struct {
	MockGateway
	entered chan struct{}
	release chan struct{}
}

func (b *blockingGateway) IDExists(ctx context.Context, id string) (bool, error) {
	close(b.entered)
	<-b.release
	return true, nil
}

func TestSubmit_GuardsAgainstDoubleSubmit(t *testing.T) {
	api := &blockingGateway{entered: make(chan struct{}), release: make(chan struct{})}
	f := newCreate(api)
	require.NoError(t, f.Set(domain.FieldID, "dup"))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := f.Submit(context.Background())
		assert.NoError(t, err)
	}()

	<-api.entered
	assert.Equal(t, form.Submitting, f.State())
	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, form.ErrSubmitInProgress)
	assert.ErrorIs(t, f.Reset(), form.ErrSubmitInProgress)

	close(api.release)
	wg.Wait()
	assert.Equal(t, form.Editing, f.State())
}
