package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridtrade/exchange/internal/api"
	"github.com/gridtrade/exchange/internal/api/handlers"
	"github.com/gridtrade/exchange/internal/services"
	"github.com/gridtrade/exchange/internal/store"
	"github.com/gridtrade/exchange/pkg/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

func newTestRouter() http.Handler {
	st := store.NewMemory()
	secret := []byte("test-secret")
	return api.NewRouter(api.Dependencies{
		HMACSecret:          secret,
		AuthHandler:         handlers.NewAuthHandler(services.NewUserService(st), secret),
		ListingsHandler:     handlers.NewListingsHandler(services.NewListingService(st)),
		TransactionsHandler: handlers.NewTransactionsHandler(services.NewTransactionService(st, nil)),
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dest))
}

func TestHomeBanner(t *testing.T) {
	router := newTestRouter()
	rr := doJSON(t, router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain"))
	require.Equal(t, "Energy Exchange Backend is running!", rr.Body.String())
}

func TestLogin(t *testing.T) {
	router := newTestRouter()

	rr := doJSON(t, router, http.MethodPost, "/api/login", map[string]any{"role": "buyer"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var errBody map[string]string
	decodeBody(t, rr, &errBody)
	require.Equal(t, "Email is required", errBody["error"])

	rr = doJSON(t, router, http.MethodPost, "/api/login", map[string]any{
		"email": "alice@x.com", "role": "producer", "name": "Alice",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Message string `json:"message"`
		User    struct {
			Email string `json:"email"`
			Role  string `json:"role"`
			Name  string `json:"name"`
		} `json:"user"`
		Token string `json:"token"`
	}
	decodeBody(t, rr, &resp)
	require.Equal(t, "Login successful!", resp.Message)
	require.Equal(t, "alice@x.com", resp.User.Email)
	require.Equal(t, "producer", resp.User.Role)
	require.NotEmpty(t, resp.Token)
}

func TestListListings(t *testing.T) {
	router := newTestRouter()

	rr := doJSON(t, router, http.MethodGet, "/api/listings", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var listings []map[string]any
	decodeBody(t, rr, &listings)
	require.Len(t, listings, 3)

	rr = doJSON(t, router, http.MethodGet, "/api/listings?type=solar", nil)
	decodeBody(t, rr, &listings)
	require.Len(t, listings, 2)

	rr = doJSON(t, router, http.MethodGet, "/api/listings?type=all&source=all", nil)
	decodeBody(t, rr, &listings)
	require.Len(t, listings, 3)
}

func TestPostEnergy(t *testing.T) {
	router := newTestRouter()

	// Numeric fields arrive as strings from the dashboard form.
	rr := doJSON(t, router, http.MethodPost, "/api/post-energy", map[string]any{
		"type": "Solar", "amount": "5", "price": "0.2",
		"user_email": "carol@x.com", "source": "Renewable", "duration": "6",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var resp struct {
		Message string `json:"message"`
		Listing struct {
			ID       int     `json:"id"`
			Producer string  `json:"producer"`
			Amount   float64 `json:"amount"`
			Price    float64 `json:"price"`
			Location string  `json:"location"`
			Duration int     `json:"duration"`
		} `json:"listing"`
	}
	decodeBody(t, rr, &resp)
	require.Equal(t, "Listing created successfully!", resp.Message)
	require.Equal(t, 4, resp.Listing.ID)
	require.Equal(t, "carol", resp.Listing.Producer)
	require.Equal(t, 5.0, resp.Listing.Amount)
	require.Equal(t, "User Location", resp.Listing.Location)
	require.Equal(t, 6, resp.Listing.Duration)

	// JSON numbers work too.
	rr = doJSON(t, router, http.MethodPost, "/api/post-energy", map[string]any{
		"type": "Wind", "amount": 40, "price": 0.1,
		"user_email": "dave@x.com", "source": "Renewable", "duration": 12,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/post-energy", map[string]any{
		"type": "Wind", "amount": 40, "price": 0.1,
		"user_email": "dave@x.com", "duration": 12,
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var errBody map[string]string
	decodeBody(t, rr, &errBody)
	require.Equal(t, "Missing data", errBody["error"])
}

func TestBuyEnergy(t *testing.T) {
	router := newTestRouter()

	rr := doJSON(t, router, http.MethodPost, "/api/buy-energy", map[string]any{
		"listing_id": 2, "user_email": "a@b.com",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Message string `json:"message"`
		Listing struct {
			ID     int     `json:"id"`
			Amount float64 `json:"amount"`
		} `json:"listing"`
		Transaction struct {
			ID         int     `json:"id"`
			BuyerEmail string  `json:"buyer_email"`
			Producer   string  `json:"producer"`
			Amount     float64 `json:"amount"`
			Cost       float64 `json:"cost"`
			Type       string  `json:"type"`
		} `json:"transaction"`
	}
	decodeBody(t, rr, &resp)
	require.Equal(t, "Successfully purchased 10 kWh!", resp.Message)
	require.Equal(t, 290.0, resp.Listing.Amount)
	require.Equal(t, "a@b.com", resp.Transaction.BuyerEmail)
	require.Equal(t, "Wind Turbine #3", resp.Transaction.Producer)
	require.Equal(t, 10.0, resp.Transaction.Amount)
	require.Equal(t, 1.0, resp.Transaction.Cost)
	require.Equal(t, "Wind", resp.Transaction.Type)

	rr = doJSON(t, router, http.MethodPost, "/api/buy-energy", map[string]any{
		"listing_id": 99, "user_email": "a@b.com",
	})
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/buy-energy", map[string]any{
		"user_email": "a@b.com",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	// Drain listing 3 (25 kWh) and hit the supply limit.
	for i := 0; i < 2; i++ {
		rr = doJSON(t, router, http.MethodPost, "/api/buy-energy", map[string]any{
			"listing_id": 3, "user_email": "a@b.com",
		})
		require.Equal(t, http.StatusOK, rr.Code)
	}
	rr = doJSON(t, router, http.MethodPost, "/api/buy-energy", map[string]any{
		"listing_id": 3, "user_email": "a@b.com",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var errBody map[string]string
	decodeBody(t, rr, &errBody)
	require.Equal(t, "Not enough energy available in this listing", errBody["error"])
}

func TestDeleteEnergy(t *testing.T) {
	router := newTestRouter()

	// Derived producer is the email local-part, never the domain.
	rr := doJSON(t, router, http.MethodDelete, "/api/delete-energy/1", map[string]any{
		"user_email": "anyone@solar farm a",
	})
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/listings", nil)
	var listings []map[string]any
	decodeBody(t, rr, &listings)
	require.Len(t, listings, 3)

	rr = doJSON(t, router, http.MethodDelete, "/api/delete-energy/99", map[string]any{
		"user_email": "anyone@x.com",
	})
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, router, http.MethodDelete, "/api/delete-energy/nope", map[string]any{
		"user_email": "anyone@x.com",
	})
	require.Equal(t, http.StatusNotFound, rr.Code)

	// An owner can delete their own listing.
	rr = doJSON(t, router, http.MethodPost, "/api/post-energy", map[string]any{
		"type": "Solar", "amount": "5", "price": "0.2",
		"user_email": "carol@x.com", "source": "Renewable", "duration": "6",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodDelete, "/api/delete-energy/4", map[string]any{
		"user_email": "carol@elsewhere.org",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var msg map[string]string
	decodeBody(t, rr, &msg)
	require.Equal(t, "Listing deleted successfully", msg["message"])
}

func TestMyEnergy(t *testing.T) {
	router := newTestRouter()

	rr := doJSON(t, router, http.MethodPost, "/api/my-energy", map[string]any{})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/buy-energy", map[string]any{
		"listing_id": 1, "user_email": "a@b.com",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/my-energy", map[string]any{
		"user_email": "a@b.com",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var txns []map[string]any
	decodeBody(t, rr, &txns)
	require.Len(t, txns, 1)

	rr = doJSON(t, router, http.MethodPost, "/api/my-energy", map[string]any{
		"user_email": "nobody@x.com",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &txns)
	require.Empty(t, txns)
}

func TestBearerTokenFallback(t *testing.T) {
	router := newTestRouter()

	rr := doJSON(t, router, http.MethodPost, "/api/login", map[string]any{
		"email": "a@b.com", "role": "buyer", "name": "Alice",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, rr, &login)
	require.NotEmpty(t, login.Token)

	// A request without user_email in the body is identified by its token.
	b, _ := json.Marshal(map[string]any{"listing_id": 1})
	req := httptest.NewRequest(http.MethodPost, "/api/buy-energy", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Transaction struct {
			BuyerEmail string `json:"buyer_email"`
		} `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "a@b.com", resp.Transaction.BuyerEmail)
}
