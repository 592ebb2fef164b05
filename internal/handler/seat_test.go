package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-reservation/internal/config"
	"github.com/iliyamo/train-seat-reservation/internal/handler"
	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
	"github.com/iliyamo/train-seat-reservation/internal/router"
	"github.com/iliyamo/train-seat-reservation/internal/service"
	"github.com/iliyamo/train-seat-reservation/internal/utils"
)

const testSecret = "test-secret"

// testAPI wires the seat and booking routes over the in-memory store,
// the same way cmd/server does against MySQL.
type testAPI struct {
	e     *echo.Echo
	store *repository.MemoryStore
	users *repository.MemoryUserDirectory
	svc   *service.ReservationService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := repository.NewMemoryStore()
	users := repository.NewMemoryUserDirectory()
	svc := service.NewReservationService(store, users, nil)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterSeats(e, handler.NewSeatHandler(svc), testSecret)
	router.RegisterBookings(e, handler.NewBookingHandler(svc), testSecret,
		config.RateLimitConfig{Enabled: false}, nil)

	return &testAPI{e: e, store: store, users: users, svc: svc}
}

func (a *testAPI) token(t *testing.T, userID uint64) string {
	t.Helper()
	at, err := utils.NewAccessToken(testSecret, userID, 15)
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}
	return at.Token
}

func (a *testAPI) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestInitSeatsOnce(t *testing.T) {
	api := newTestAPI(t)
	uid := api.users.Add("Admin", "admin@example.com")
	token := api.token(t, uid)

	if rec := api.do(http.MethodPost, "/api/seats/init", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("init without token: expected 401, got %d", rec.Code)
	}

	rec := api.do(http.MethodPost, "/api/seats/init", token, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("first init: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode init response: %v", err)
	}
	if resp.Count != service.TotalSeats {
		t.Fatalf("expected count %d, got %d", service.TotalSeats, resp.Count)
	}

	if rec := api.do(http.MethodPost, "/api/seats/init", token, ""); rec.Code != http.StatusConflict {
		t.Fatalf("second init: expected 409, got %d", rec.Code)
	}
}

func TestListSeatsAndStats(t *testing.T) {
	api := newTestAPI(t)
	if err := api.svc.InitializeSeats(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	uid := api.users.Add("Viewer", "viewer@example.com")
	if _, err := api.svc.BookOne(context.Background(), uid, "S3"); err != nil {
		t.Fatalf("BookOne: %v", err)
	}

	rec := api.do(http.MethodGet, "/api/seats", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list seats: expected 200, got %d", rec.Code)
	}
	var seats []model.Seat
	if err := json.Unmarshal(rec.Body.Bytes(), &seats); err != nil {
		t.Fatalf("decode seats: %v", err)
	}
	if len(seats) != service.TotalSeats {
		t.Fatalf("expected %d seats, got %d", service.TotalSeats, len(seats))
	}

	rec = api.do(http.MethodGet, "/api/seats/stats", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", rec.Code)
	}
	var stats model.SeatStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Total != service.TotalSeats || stats.Booked != 1 || stats.Available != service.TotalSeats-1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Window.Available != stats.Window.Total-1 {
		t.Fatalf("S3 is a window seat, expected window availability to drop: %+v", stats.Window)
	}
}
