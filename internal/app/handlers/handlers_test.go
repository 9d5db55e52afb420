package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/Debashish2005/Shopzi/internal/app/handlers"
	"github.com/Debashish2005/Shopzi/internal/domain/models"
	"github.com/Debashish2005/Shopzi/internal/jwt/jwtmiddleware"
	"github.com/Debashish2005/Shopzi/internal/service"
	"github.com/Debashish2005/Shopzi/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, nil))

// authed injects the user id the way the JWT middleware would.
func authed(r *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(r.Context(), jwtmiddleware.UserIDKey, userID)
	return r.WithContext(ctx)
}

type fakeAuthService struct {
	loginToken string
	loginErr   error
	signUpErr  error
	forgotErr  error
}

var _ service.AuthServiceInterface = (*fakeAuthService)(nil)

func (f *fakeAuthService) SignUp(ctx context.Context, fullName, email, mobile, password string) error {
	return f.signUpErr
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return f.loginToken, f.loginErr
}

func (f *fakeAuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	return nil
}

func (f *fakeAuthService) ForgotPassword(ctx context.Context, email string) error {
	return f.forgotErr
}

func (f *fakeAuthService) ResetPassword(ctx context.Context, token, password string) error {
	return nil
}

type fakeOrderService struct {
	placeID   int64
	placeErr  error
	placeReq  service.PlaceOrderRequest
	orders    []*models.Order
	ordersErr error
	cancelErr error
}

var _ service.OrderService = (*fakeOrderService)(nil)

func (f *fakeOrderService) PlaceOrder(ctx context.Context, userID int64, req service.PlaceOrderRequest) (int64, error) {
	f.placeReq = req
	return f.placeID, f.placeErr
}

func (f *fakeOrderService) GetOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	return f.orders, f.ordersErr
}

func (f *fakeOrderService) CancelOrder(ctx context.Context, userID, orderID int64) error {
	return f.cancelErr
}

type fakeCartService struct {
	addedProductID int64
	addedQuantity  int
	addErr         error
	items          []*models.CartItem
	removeErr      error
}

var _ service.CartService = (*fakeCartService)(nil)

func (f *fakeCartService) AddToCart(ctx context.Context, userID, productID int64, quantity int) error {
	f.addedProductID, f.addedQuantity = productID, quantity
	return f.addErr
}

func (f *fakeCartService) GetCart(ctx context.Context, userID int64) ([]*models.CartItem, error) {
	return f.items, nil
}

func (f *fakeCartService) RemoveItem(ctx context.Context, userID, cartItemID int64) error {
	return f.removeErr
}

func TestLoginHandler_SetsSessionCookie(t *testing.T) {
	authSvc := &fakeAuthService{loginToken: "signed.jwt.token"}
	handler := handlers.LoginHandler(testLogger, authSvc)

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"u@example.com","password":"password123"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, jwtmiddleware.CookieName, cookies[0].Name)
	assert.Equal(t, "signed.jwt.token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	authSvc := &fakeAuthService{loginErr: service.ErrInvalidCredentials}
	handler := handlers.LoginHandler(testLogger, authSvc)

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"u@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "No cookie on a failed login")
}

func TestSignupHandler_DuplicateEmail(t *testing.T) {
	authSvc := &fakeAuthService{signUpErr: service.ErrEmailTaken}
	handler := handlers.SignupHandler(testLogger, authSvc)

	req := httptest.NewRequest(http.MethodPost, "/signup",
		strings.NewReader(`{"full_name":"A","email":"a@example.com","mobile":"1234567890","password":"password123"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignupHandler_MissingFields(t *testing.T) {
	handler := handlers.SignupHandler(testLogger, &fakeAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/signup",
		strings.NewReader(`{"email":"a@example.com"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForgotPasswordHandler_UnknownEmail(t *testing.T) {
	authSvc := &fakeAuthService{
		forgotErr: fmt.Errorf("auth.ForgotPassword: failed to get user: %w", storage.ErrUserNotFound),
	}
	handler := handlers.ForgotPasswordHandler(testLogger, authSvc)

	req := httptest.NewRequest(http.MethodPost, "/forgot-password",
		strings.NewReader(`{"email":"nobody@example.com"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestForgotPasswordHandler_MailFailure(t *testing.T) {
	authSvc := &fakeAuthService{forgotErr: errors.New("smtp down")}
	handler := handlers.ForgotPasswordHandler(testLogger, authSvc)

	req := httptest.NewRequest(http.MethodPost, "/forgot-password",
		strings.NewReader(`{"email":"u@example.com"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestForgotPasswordHandler_Success(t *testing.T) {
	handler := handlers.ForgotPasswordHandler(testLogger, &fakeAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/forgot-password",
		strings.NewReader(`{"email":"u@example.com"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Password reset email sent!"}`, rec.Body.String())
}

func TestPlaceOrderHandler_Success(t *testing.T) {
	orderSvc := &fakeOrderService{placeID: 42}
	handler := handlers.PlaceOrderHandler(testLogger, orderSvc)

	body := `{"address_id":3,"payment_method":"cod","items":[{"product_id":7,"quantity":2,"price":"50.00"}]}`
	req := authed(httptest.NewRequest(http.MethodPost, "/place-order", strings.NewReader(body)), 1)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp handlers.PlaceOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(42), resp.OrderID)

	require.Len(t, orderSvc.placeReq.Items, 1)
	assert.Equal(t, int64(7), orderSvc.placeReq.Items[0].ProductID)
	assert.True(t, orderSvc.placeReq.Items[0].Price.Equal(decimal.RequireFromString("50.00")))
}

func TestPlaceOrderHandler_Unauthorized(t *testing.T) {
	handler := handlers.PlaceOrderHandler(testLogger, &fakeOrderService{})

	req := httptest.NewRequest(http.MethodPost, "/place-order", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlaceOrderHandler_MissingItems(t *testing.T) {
	handler := handlers.PlaceOrderHandler(testLogger, &fakeOrderService{})

	body := `{"address_id":3,"payment_method":"cod","items":[]}`
	req := authed(httptest.NewRequest(http.MethodPost, "/place-order", strings.NewReader(body)), 1)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceOrderHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"price changed", service.ErrPriceChanged, http.StatusConflict},
		{"address not found", storage.ErrAddressNotFound, http.StatusNotFound},
		{"product not found", storage.ErrProductNotFound, http.StatusNotFound},
		{"storage failure", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := handlers.PlaceOrderHandler(testLogger, &fakeOrderService{placeErr: tc.err})

			body := `{"address_id":3,"payment_method":"cod","items":[{"product_id":7,"quantity":1,"price":"50.00"}]}`
			req := authed(httptest.NewRequest(http.MethodPost, "/place-order", strings.NewReader(body)), 1)
			rec := httptest.NewRecorder()
			handler(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestListOrdersHandler_ReturnsOrders(t *testing.T) {
	orderSvc := &fakeOrderService{orders: []*models.Order{
		{
			ID:          42,
			TotalAmount: decimal.RequireFromString("119.50"),
			Status:      models.OrderStatusPlaced,
			Items: []models.OrderItem{
				{ProductID: 7, Name: "Wireless Mouse", Quantity: 2, Price: decimal.RequireFromString("50.00")},
			},
		},
	}}
	handler := handlers.ListOrdersHandler(testLogger, orderSvc)

	req := authed(httptest.NewRequest(http.MethodGet, "/orders", nil), 1)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.OrderListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, models.OrderStatusPlaced, resp.Orders[0].Status)
	require.Len(t, resp.Orders[0].Items, 1)
	assert.Equal(t, "Wireless Mouse", resp.Orders[0].Items[0].Name)
}

func TestListOrdersHandler_EmptyIsJSONArray(t *testing.T) {
	handler := handlers.ListOrdersHandler(testLogger, &fakeOrderService{})

	req := authed(httptest.NewRequest(http.MethodGet, "/orders", nil), 1)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"orders":[]}`, rec.Body.String())
}

func TestCancelOrderHandler_NotCancellable(t *testing.T) {
	router := chi.NewRouter()
	router.Delete("/orders/{orderId}", handlers.CancelOrderHandler(testLogger, &fakeOrderService{
		cancelErr: fmt.Errorf("cancel: %w", storage.ErrOrderNotCancellable),
	}))

	req := authed(httptest.NewRequest(http.MethodDelete, "/orders/42", nil), 1)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelOrderHandler_Success(t *testing.T) {
	router := chi.NewRouter()
	router.Delete("/orders/{orderId}", handlers.CancelOrderHandler(testLogger, &fakeOrderService{}))

	req := authed(httptest.NewRequest(http.MethodDelete, "/orders/42", nil), 1)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Order cancelled successfully"}`, rec.Body.String())
}

func TestCancelOrderHandler_BadOrderID(t *testing.T) {
	router := chi.NewRouter()
	router.Delete("/orders/{orderId}", handlers.CancelOrderHandler(testLogger, &fakeOrderService{}))

	req := authed(httptest.NewRequest(http.MethodDelete, "/orders/abc", nil), 1)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddToCartHandler_DefaultsQuantityToOne(t *testing.T) {
	cartSvc := &fakeCartService{}
	handler := handlers.AddToCartHandler(testLogger, cartSvc)

	req := authed(httptest.NewRequest(http.MethodPost, "/add-to-cart",
		strings.NewReader(`{"product_id":7}`)), 1)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), cartSvc.addedProductID)
	assert.Equal(t, 1, cartSvc.addedQuantity)
}

func TestAddToCartHandler_MissingProduct(t *testing.T) {
	handler := handlers.AddToCartHandler(testLogger, &fakeCartService{})

	req := authed(httptest.NewRequest(http.MethodPost, "/add-to-cart",
		strings.NewReader(`{"quantity":2}`)), 1)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCartHandler_EmptyIsJSONArray(t *testing.T) {
	handler := handlers.GetCartHandler(testLogger, &fakeCartService{})

	req := authed(httptest.NewRequest(http.MethodGet, "/cart", nil), 1)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"items":[]}`, rec.Body.String())
}

func TestRemoveCartItemHandler_NotFound(t *testing.T) {
	router := chi.NewRouter()
	router.Delete("/cart/{cartItemId}", handlers.RemoveCartItemHandler(testLogger, &fakeCartService{
		removeErr: fmt.Errorf("remove: %w", storage.ErrCartItemNotFound),
	}))

	req := authed(httptest.NewRequest(http.MethodDelete, "/cart/5", nil), 1)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
