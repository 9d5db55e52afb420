package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These scenarios run against a live server with a migrated database:
//
//	SHOPZI_API_TESTS=1 go test ./tests/
const baseURL = "http://localhost:8080"

func requireServer(t *testing.T) {
	t.Helper()
	if os.Getenv("SHOPZI_API_TESTS") != "1" {
		t.Skip("set SHOPZI_API_TESTS=1 to run live API tests")
	}
}

type signupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type placeOrderRequest struct {
	AddressID     int64            `json:"address_id"`
	PaymentMethod string           `json:"payment_method"`
	Items         []placeOrderItem `json:"items"`
}

type placeOrderItem struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type placeOrderResponse struct {
	Success bool  `json:"success"`
	OrderID int64 `json:"order_id"`
}

// registerAndLogin creates a fresh user and returns the session token from
// the login cookie.
func registerAndLogin(t *testing.T, prefix string) string {
	t.Helper()

	suffix := time.Now().UnixNano()
	email := fmt.Sprintf("%s%d@test.com", prefix, suffix)
	mobile := fmt.Sprintf("9%09d", suffix%1_000_000_000)

	body, err := json.Marshal(signupRequest{
		FullName: "API Test User",
		Email:    email,
		Mobile:   mobile,
		Password: "testpass123",
	})
	require.NoError(t, err)

	resp, err := http.Post(baseURL+"/signup", "application/json", bytes.NewBuffer(body))
	require.NoError(t, err, "Signup request should not error")
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode, "Expected 201 for a fresh signup")

	loginBody := []byte(`{"email": "` + email + `", "password": "testpass123"}`)
	loginResp, err := http.Post(baseURL+"/login", "application/json", bytes.NewBuffer(loginBody))
	require.NoError(t, err, "Login request should not error")
	defer loginResp.Body.Close()
	require.Equal(t, http.StatusOK, loginResp.StatusCode, "Expected 200 OK for valid login")

	for _, c := range loginResp.Cookies() {
		if c.Name == "token" && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("login response did not set a session cookie")
	return ""
}

func doAuthed(t *testing.T, method, path, token string, body []byte) *http.Response {
	t.Helper()
	var reader *bytes.Buffer
	if body == nil {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = bytes.NewBuffer(body)
	}
	req, err := http.NewRequest(method, baseURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := (&http.Client{}).Do(req)
	require.NoError(t, err)
	return resp
}

func TestSignupAndLogin(t *testing.T) {
	requireServer(t)
	token := registerAndLogin(t, "auth")
	assert.NotEmpty(t, token, "session token should be obtained")
}

func TestLoginInvalid(t *testing.T) {
	requireServer(t)
	body := []byte(`{"email": "nobody@test.com", "password": "wrongpass1"}`)
	resp, err := http.Post(baseURL+"/login", "application/json", bytes.NewBuffer(body))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expected 401 for bad credentials")
}

func TestGetMeUnauthorized(t *testing.T) {
	requireServer(t)
	req, err := http.NewRequest("GET", baseURL+"/me", nil)
	assert.NoError(t, err)
	resp, err := (&http.Client{}).Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expected 401 unauthorized for missing token")
}

func TestListProductsPublic(t *testing.T) {
	requireServer(t)
	resp, err := http.Get(baseURL + "/products")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "expected 200 OK for the public catalog")
}

func TestCartRoundTrip(t *testing.T) {
	requireServer(t)
	token := registerAndLogin(t, "cart")

	addResp := doAuthed(t, "POST", "/add-to-cart", token, []byte(`{"product_id": 1, "quantity": 2}`))
	defer addResp.Body.Close()
	assert.Equal(t, http.StatusOK, addResp.StatusCode, "expected 200 for add-to-cart")

	cartResp := doAuthed(t, "GET", "/cart", token, nil)
	defer cartResp.Body.Close()
	assert.Equal(t, http.StatusOK, cartResp.StatusCode, "expected 200 for cart fetch")
}

func TestPlaceOrderWithoutAddress(t *testing.T) {
	requireServer(t)
	token := registerAndLogin(t, "noaddr")

	// address 999999 does not belong to a freshly created user
	body, err := json.Marshal(placeOrderRequest{
		AddressID:     999999,
		PaymentMethod: "cod",
		Items:         []placeOrderItem{{ProductID: 1, Quantity: 1, Price: "1.00"}},
	})
	require.NoError(t, err)

	resp := doAuthed(t, "POST", "/place-order", token, body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "expected 404 for an address the user does not own")
}

func TestPlaceOrderMissingFields(t *testing.T) {
	requireServer(t)
	token := registerAndLogin(t, "badorder")

	resp := doAuthed(t, "POST", "/place-order", token, []byte(`{"payment_method": "cod"}`))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "expected 400 for an order with no items")
}

func TestOrderLifecycle(t *testing.T) {
	requireServer(t)
	token := registerAndLogin(t, "lifecycle")

	// the user needs an address to ship to
	addrResp := doAuthed(t, "POST", "/post-address", token,
		[]byte(`{"name": "Home", "street": "5 Main St", "city": "Pune", "state": "MH", "pincode": "411001"}`))
	defer addrResp.Body.Close()
	require.Equal(t, http.StatusCreated, addrResp.StatusCode, "expected 201 for address creation")

	listAddrResp := doAuthed(t, "GET", "/addresses", token, nil)
	defer listAddrResp.Body.Close()
	require.Equal(t, http.StatusOK, listAddrResp.StatusCode)

	var addrs struct {
		Addresses []struct {
			ID int64 `json:"id"`
		} `json:"addresses"`
	}
	require.NoError(t, json.NewDecoder(listAddrResp.Body).Decode(&addrs))
	require.NotEmpty(t, addrs.Addresses, "the freshly created address should be listed")

	// read product 1 so the submitted price matches the catalog
	prodResp, err := http.Get(baseURL + "/product/1")
	require.NoError(t, err)
	defer prodResp.Body.Close()
	require.Equal(t, http.StatusOK, prodResp.StatusCode, "product 1 must exist for this scenario")

	var detail struct {
		Product struct {
			Price string `json:"price"`
		} `json:"product"`
	}
	require.NoError(t, json.NewDecoder(prodResp.Body).Decode(&detail))

	body, err := json.Marshal(placeOrderRequest{
		AddressID:     addrs.Addresses[0].ID,
		PaymentMethod: "cod",
		Items:         []placeOrderItem{{ProductID: 1, Quantity: 1, Price: detail.Product.Price}},
	})
	require.NoError(t, err)

	placeResp := doAuthed(t, "POST", "/place-order", token, body)
	defer placeResp.Body.Close()
	require.Equal(t, http.StatusCreated, placeResp.StatusCode, "expected 201 for a valid order")

	var placed placeOrderResponse
	require.NoError(t, json.NewDecoder(placeResp.Body).Decode(&placed))
	assert.True(t, placed.Success)
	require.NotZero(t, placed.OrderID)

	listResp := doAuthed(t, "GET", "/orders", token, nil)
	defer listResp.Body.Close()
	assert.Equal(t, http.StatusOK, listResp.StatusCode)

	cancelResp := doAuthed(t, "DELETE", fmt.Sprintf("/orders/%d", placed.OrderID), token, nil)
	defer cancelResp.Body.Close()
	assert.Equal(t, http.StatusOK, cancelResp.StatusCode, "expected 200 for cancelling a placed order")

	// cancelling twice flips nothing: the order is no longer Placed
	again := doAuthed(t, "DELETE", fmt.Sprintf("/orders/%d", placed.OrderID), token, nil)
	defer again.Body.Close()
	assert.Equal(t, http.StatusNotFound, again.StatusCode, "expected 404 for a second cancellation")
}
