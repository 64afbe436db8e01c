package booking_controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/travelapp/clients"
	"github.com/joy095/travelapp/logger"
	"github.com/joy095/travelapp/middlewares/auth"
	"github.com/joy095/travelapp/models/booking_models"
	"github.com/joy095/travelapp/models/listing_models"
	"github.com/joy095/travelapp/models/payment_models"
	"github.com/joy095/travelapp/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.InitLoggers()
}

type fakeListingStore struct {
	listings map[uuid.UUID]*listing_models.Listing
}

func (f *fakeListingStore) GetByID(_ context.Context, listingID uuid.UUID) (*listing_models.Listing, error) {
	listing, ok := f.listings[listingID]
	if !ok {
		return nil, utils.ErrListingNotFound
	}
	return listing, nil
}

type fakeBookingStore struct {
	created []*booking_models.Booking
}

func (f *fakeBookingStore) Create(_ context.Context, booking *booking_models.Booking) (*booking_models.Booking, error) {
	f.created = append(f.created, booking)
	return booking, nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, bookingID uuid.UUID) (*booking_models.Booking, error) {
	for _, b := range f.created {
		if b.ID == bookingID {
			return b, nil
		}
	}
	return nil, utils.ErrBookingNotFound
}

func (f *fakeBookingStore) ListByGuest(_ context.Context, guestID uuid.UUID, status string, _, _ int) ([]booking_models.Booking, int, error) {
	var out []booking_models.Booking
	for _, b := range f.created {
		if b.GuestID != guestID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, *b)
	}
	return out, len(out), nil
}

type fakePaymentStore struct {
	created   []*payment_models.Payment
	createErr error
}

func (f *fakePaymentStore) Create(_ context.Context, payment *payment_models.Payment) (*payment_models.Payment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, payment)
	return payment, nil
}

type fakeGateway struct {
	initErr   error
	initCalls int
}

func (f *fakeGateway) Initialize(_ context.Context, req *clients.InitializeRequest) (*clients.InitializeResponse, error) {
	f.initCalls++
	if f.initErr != nil {
		return nil, f.initErr
	}
	return &clients.InitializeResponse{TxRef: req.TxRef, CheckoutURL: "https://checkout.chapa.co/pay/test"}, nil
}

func (f *fakeGateway) Verify(_ context.Context, _ string) (*clients.VerifyResponse, error) {
	return &clients.VerifyResponse{Status: "success"}, nil
}

type fakeNotifier struct {
	bookingConfirmations []uuid.UUID
	paymentConfirmations []uuid.UUID
}

func (f *fakeNotifier) SendBookingConfirmation(bookingID uuid.UUID, _ string) {
	f.bookingConfirmations = append(f.bookingConfirmations, bookingID)
}

func (f *fakeNotifier) SendPaymentConfirmation(bookingID uuid.UUID, _ string) {
	f.paymentConfirmations = append(f.paymentConfirmations, bookingID)
}

func activeListing(t *testing.T) *listing_models.Listing {
	t.Helper()
	listing, err := listing_models.NewListing(uuid.New(), "Lakeside Cabin", "Bahir Dar", "", "cabin", 100.00, 4, 2, 1)
	require.NoError(t, err)
	return listing
}

type testEnv struct {
	listings *fakeListingStore
	bookings *fakeBookingStore
	payments *fakePaymentStore
	gateway  *fakeGateway
	notifier *fakeNotifier
	guestID  uuid.UUID
	router   *gin.Engine
}

func newTestEnv(listing *listing_models.Listing) *testEnv {
	env := &testEnv{
		listings: &fakeListingStore{listings: make(map[uuid.UUID]*listing_models.Listing)},
		bookings: &fakeBookingStore{},
		payments: &fakePaymentStore{},
		gateway:  &fakeGateway{},
		notifier: &fakeNotifier{},
		guestID:  uuid.New(),
	}
	if listing != nil {
		env.listings.listings[listing.ID] = listing
	}

	bc := &BookingController{
		Listings:    env.listings,
		Bookings:    env.bookings,
		Payments:    env.payments,
		Gateway:     env.gateway,
		Notifier:    env.notifier,
		CallbackURL: "http://localhost:8080/api/payments/verify",
		Currency:    "ETB",
	}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(auth.ContextGuestID, env.guestID.String())
		c.Set(auth.ContextGuestEmail, "guest@example.com")
		c.Set(auth.ContextGuestFirstName, "Abel")
		c.Set(auth.ContextGuestLastName, "Tesfaye")
	})
	router.POST("/api/bookings", bc.CreateBooking)
	router.GET("/api/bookings", bc.GetBookings)
	router.GET("/api/bookings/:booking_id", bc.GetBooking)
	env.router = router

	return env
}

func (env *testEnv) createBooking(payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(w, req)
	return w
}

func TestCreateBookingSuccess(t *testing.T) {
	listing := activeListing(t)
	env := newTestEnv(listing)

	w := env.createBooking(gin.H{
		"listing_id":   listing.ID.String(),
		"check_in":     "2026-09-01",
		"check_out":    "2026-09-04",
		"guests_count": 2,
	})

	require.Equal(t, http.StatusCreated, w.Code)

	require.Len(t, env.bookings.created, 1)
	booking := env.bookings.created[0]
	assert.Equal(t, 600.00, booking.TotalPrice)
	assert.Equal(t, booking_models.StatusPending, booking.Status)
	assert.Equal(t, env.guestID, booking.GuestID)

	require.Len(t, env.payments.created, 1)
	payment := env.payments.created[0]
	assert.Equal(t, payment_models.StatusPending, payment.Status)
	assert.Equal(t, booking.TotalPrice, payment.Amount)
	require.NotNil(t, payment.TransactionRef)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "https://checkout.chapa.co/pay/test", body["checkout_url"])

	assert.Equal(t, []uuid.UUID{booking.ID}, env.notifier.bookingConfirmations)
	assert.Empty(t, env.notifier.paymentConfirmations)
}

func TestCreateBookingGatewayFailure(t *testing.T) {
	listing := activeListing(t)
	env := newTestEnv(listing)
	env.gateway.initErr = &clients.GatewayError{StatusCode: 503, Body: "unavailable"}

	w := env.createBooking(gin.H{
		"listing_id":   listing.ID.String(),
		"check_in":     "2026-09-01",
		"check_out":    "2026-09-04",
		"guests_count": 2,
	})

	// the booking survives a gateway outage
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, env.bookings.created, 1)

	require.Len(t, env.payments.created, 1)
	payment := env.payments.created[0]
	assert.Equal(t, payment_models.StatusFailed, payment.Status)
	// the generated reference is kept on the failed attempt
	require.NotNil(t, payment.TransactionRef)
	assert.NotEmpty(t, *payment.TransactionRef)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Nil(t, body["checkout_url"])

	assert.Len(t, env.notifier.bookingConfirmations, 1)
}

func TestCreateBookingListingNotFound(t *testing.T) {
	env := newTestEnv(nil)

	w := env.createBooking(gin.H{
		"listing_id":   uuid.New().String(),
		"check_in":     "2026-09-01",
		"check_out":    "2026-09-04",
		"guests_count": 2,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, env.bookings.created)
	assert.Empty(t, env.payments.created)
	assert.Empty(t, env.notifier.bookingConfirmations)
}

func TestCreateBookingInactiveListing(t *testing.T) {
	listing := activeListing(t)
	listing.Status = listing_models.StatusSuspended
	env := newTestEnv(listing)

	w := env.createBooking(gin.H{
		"listing_id":   listing.ID.String(),
		"check_in":     "2026-09-01",
		"check_out":    "2026-09-04",
		"guests_count": 2,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.bookings.created)
	assert.Zero(t, env.gateway.initCalls)
}

func TestCreateBookingCapacityExceeded(t *testing.T) {
	listing := activeListing(t)
	env := newTestEnv(listing)

	w := env.createBooking(gin.H{
		"listing_id":   listing.ID.String(),
		"check_in":     "2026-09-01",
		"check_out":    "2026-09-04",
		"guests_count": 5,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.bookings.created)
	assert.Empty(t, env.payments.created)
}

func TestCreateBookingInvalidDates(t *testing.T) {
	listing := activeListing(t)
	env := newTestEnv(listing)

	w := env.createBooking(gin.H{
		"listing_id":   listing.ID.String(),
		"check_in":     "2026-09-04",
		"check_out":    "2026-09-01",
		"guests_count": 2,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.bookings.created)
}

func TestCreateBookingUnauthenticated(t *testing.T) {
	listing := activeListing(t)
	env := newTestEnv(listing)

	// route without the identity-injecting middleware
	bc := &BookingController{
		Listings: env.listings,
		Bookings: env.bookings,
		Payments: env.payments,
		Gateway:  env.gateway,
		Notifier: env.notifier,
	}
	router := gin.New()
	router.POST("/api/bookings", bc.CreateBooking)

	body, _ := json.Marshal(gin.H{
		"listing_id":   listing.ID.String(),
		"check_in":     "2026-09-01",
		"check_out":    "2026-09-04",
		"guests_count": 2,
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetBookingsFiltersByGuest(t *testing.T) {
	listing := activeListing(t)
	env := newTestEnv(listing)

	resp := env.createBooking(gin.H{
		"listing_id":   listing.ID.String(),
		"check_in":     "2026-09-01",
		"check_out":    "2026-09-03",
		"guests_count": 1,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Bookings []booking_models.Booking `json:"bookings"`
		Total    int                      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	require.Len(t, body.Bookings, 1)
	assert.Equal(t, env.guestID, body.Bookings[0].GuestID)
}

func TestGetBookingByID(t *testing.T) {
	listing := activeListing(t)
	env := newTestEnv(listing)

	resp := env.createBooking(gin.H{
		"listing_id":   listing.ID.String(),
		"check_in":     "2026-09-01",
		"check_out":    "2026-09-03",
		"guests_count": 1,
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	bookingID := env.bookings.created[0].ID

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+bookingID.String(), nil)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	missing := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/bookings/"+uuid.New().String(), nil)
	env.router.ServeHTTP(missing, req)

	assert.Equal(t, http.StatusNotFound, missing.Code)
}
