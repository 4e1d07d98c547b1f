package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arinovich/bookwidget/internal/discount"
	"github.com/arinovich/bookwidget/internal/domain"
	"github.com/arinovich/bookwidget/internal/service/checkout"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCheckoutUseCase is a mock implementation of checkout.CheckoutUseCase
type MockCheckoutUseCase struct {
	mock.Mock
}

func (m *MockCheckoutUseCase) StartSession(ctx context.Context, orgID int64) (*checkout.Draft, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Draft), args.Error(1)
}

func (m *MockCheckoutUseCase) GetSession(ctx context.Context, sessionID string) (*checkout.Draft, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Draft), args.Error(1)
}

func (m *MockCheckoutUseCase) SelectExperience(ctx context.Context, sessionID string, experienceID int64) (*checkout.Draft, error) {
	args := m.Called(ctx, sessionID, experienceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Draft), args.Error(1)
}

func (m *MockCheckoutUseCase) SelectSlot(ctx context.Context, sessionID string, slotID int64) (*checkout.Draft, error) {
	args := m.Called(ctx, sessionID, slotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Draft), args.Error(1)
}

func (m *MockCheckoutUseCase) AddTickets(ctx context.Context, sessionID string, ticketTypeID int64, quantity int) (*checkout.Draft, error) {
	args := m.Called(ctx, sessionID, ticketTypeID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Draft), args.Error(1)
}

func (m *MockCheckoutUseCase) RemoveLine(ctx context.Context, sessionID, lineID string) (*checkout.Draft, error) {
	args := m.Called(ctx, sessionID, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Draft), args.Error(1)
}

func (m *MockCheckoutUseCase) ApplyPromoCode(ctx context.Context, sessionID, code string) (*checkout.Draft, error) {
	args := m.Called(ctx, sessionID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Draft), args.Error(1)
}

func (m *MockCheckoutUseCase) RemovePromoCode(ctx context.Context, sessionID string) (*checkout.Draft, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Draft), args.Error(1)
}

func (m *MockCheckoutUseCase) ApplyGiftCard(ctx context.Context, sessionID, code string) (*checkout.Draft, error) {
	args := m.Called(ctx, sessionID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Draft), args.Error(1)
}

func (m *MockCheckoutUseCase) RemoveGiftCard(ctx context.Context, sessionID string) (*checkout.Draft, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Draft), args.Error(1)
}

func (m *MockCheckoutUseCase) ProceedToCheckout(ctx context.Context, sessionID string) (*checkout.Draft, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Draft), args.Error(1)
}

func (m *MockCheckoutUseCase) Submit(ctx context.Context, sessionID string, contact checkout.ContactInput, card checkout.PaymentInput) (*checkout.Draft, error) {
	args := m.Called(ctx, sessionID, contact, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Draft), args.Error(1)
}

func (m *MockCheckoutUseCase) TryAgain(ctx context.Context, sessionID string) (*checkout.Draft, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Draft), args.Error(1)
}

func (m *MockCheckoutUseCase) StartOver(ctx context.Context, sessionID string) (*checkout.Draft, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Draft), args.Error(1)
}

func TestCheckoutHandler_start(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	handler := NewCheckoutHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(startSessionRequest{OrgID: 7})
	c.Request = httptest.NewRequest("POST", "/sessions", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	draft := &checkout.Draft{
		SessionID: "sess-1",
		OrgID:     7,
		State:     checkout.StateBrowsing,
	}
	mockService.On("StartSession", c.Request.Context(), int64(7)).Return(draft, nil)

	handler.start(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp sessionResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Equal(t, string(checkout.StateBrowsing), resp.State)
	assert.NotNil(t, resp.Lines)

	mockService.AssertExpectations(t)
}

func TestCheckoutHandler_get_notFound(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	handler := NewCheckoutHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Request = httptest.NewRequest("GET", "/sessions/missing", nil)

	mockService.On("GetSession", c.Request.Context(), "missing").Return(nil, domain.ErrSessionNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestCheckoutHandler_addTickets(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	handler := NewCheckoutHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "sess-1"}}
	body, _ := json.Marshal(addTicketsRequest{TicketTypeID: 3, Quantity: 2})
	c.Request = httptest.NewRequest("POST", "/sessions/sess-1/tickets", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	draft := &checkout.Draft{
		SessionID: "sess-1",
		State:     checkout.StateCart,
	}
	draft.Cart.AddTickets(3, "Adult", 3000, 2)

	mockService.On("AddTickets", c.Request.Context(), "sess-1", int64(3), 2).Return(draft, nil)

	handler.addTickets(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp sessionResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Len(t, resp.Lines, 2)
	assert.Equal(t, int64(6000), resp.Totals.SubtotalCents)
	assert.Equal(t, int64(6000), resp.Totals.TotalCents)

	mockService.AssertExpectations(t)
}

func TestCheckoutHandler_applyPromoCode_rejected(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	handler := NewCheckoutHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "sess-1"}}
	body, _ := json.Marshal(codeRequest{Code: "BOGUS"})
	c.Request = httptest.NewRequest("POST", "/sessions/sess-1/promo-code", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("ApplyPromoCode", c.Request.Context(), "sess-1", "BOGUS").
		Return(nil, &discount.RejectionError{Reason: discount.ReasonInvalidCode})

	handler.applyPromoCode(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "invalid-code")
	mockService.AssertExpectations(t)
}

func TestCheckoutHandler_proceed_soldOut(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	handler := NewCheckoutHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "sess-1"}}
	c.Request = httptest.NewRequest("POST", "/sessions/sess-1/checkout", nil)

	mockService.On("ProceedToCheckout", c.Request.Context(), "sess-1").Return(nil, domain.ErrSlotSoldOut)

	handler.proceed(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestCheckoutHandler_submit(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	handler := NewCheckoutHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "sess-1"}}
	contact := checkout.ContactInput{Name: "Ada", Email: "ada@example.com", Phone: "+155501"}
	payment := checkout.PaymentInput{CardNumber: "4242424242424242", Expiry: "12/27", CVV: "123"}
	body, _ := json.Marshal(submitRequest{Contact: contact, Payment: payment})
	c.Request = httptest.NewRequest("POST", "/sessions/sess-1/submit", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	draft := &checkout.Draft{
		SessionID:        "sess-1",
		State:            checkout.StateSuccess,
		BookingReference: "ref-42",
	}
	draft.Cart.AddTickets(3, "Adult", 3000, 1)

	mockService.On("Submit", c.Request.Context(), "sess-1", contact, payment).Return(draft, nil)

	handler.submit(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp sessionResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, string(checkout.StateSuccess), resp.State)
	assert.Equal(t, "ref-42", resp.BookingReference)

	mockService.AssertExpectations(t)
}

func TestCheckoutHandler_submit_inFlight(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	handler := NewCheckoutHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "sess-1"}}
	body, _ := json.Marshal(submitRequest{
		Contact: checkout.ContactInput{Name: "Ada", Email: "ada@example.com", Phone: "+155501"},
		Payment: checkout.PaymentInput{CardNumber: "4242424242424242", Expiry: "12/27", CVV: "123"},
	})
	c.Request = httptest.NewRequest("POST", "/sessions/sess-1/submit", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Submit", c.Request.Context(), "sess-1", mock.Anything, mock.Anything).
		Return(nil, checkout.ErrSubmitInFlight)

	handler.submit(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestCheckoutHandler_reset(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	handler := NewCheckoutHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "sess-1"}}
	c.Request = httptest.NewRequest("POST", "/sessions/sess-1/reset", nil)

	draft := &checkout.Draft{SessionID: "sess-1", State: checkout.StateBrowsing}
	mockService.On("StartOver", c.Request.Context(), "sess-1").Return(draft, nil)

	handler.reset(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp sessionResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, string(checkout.StateBrowsing), resp.State)
	assert.Empty(t, resp.Lines)

	mockService.AssertExpectations(t)
}
