package listing_controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/travelapp/logger"
	"github.com/joy095/travelapp/middlewares/auth"
	"github.com/joy095/travelapp/models/listing_models"
	"github.com/joy095/travelapp/models/review_models"
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

func newFakeListingStore() *fakeListingStore {
	return &fakeListingStore{listings: make(map[uuid.UUID]*listing_models.Listing)}
}

func (f *fakeListingStore) Create(_ context.Context, listing *listing_models.Listing) (*listing_models.Listing, error) {
	f.listings[listing.ID] = listing
	return listing, nil
}

func (f *fakeListingStore) GetByID(_ context.Context, listingID uuid.UUID) (*listing_models.Listing, error) {
	listing, ok := f.listings[listingID]
	if !ok {
		return nil, utils.ErrListingNotFound
	}
	return listing, nil
}

func (f *fakeListingStore) List(_ context.Context, status string, _, _ int) ([]listing_models.Listing, int, error) {
	var out []listing_models.Listing
	for _, l := range f.listings {
		if status != "" && l.Status != status {
			continue
		}
		out = append(out, *l)
	}
	return out, len(out), nil
}

func (f *fakeListingStore) UpdateStatus(_ context.Context, listingID uuid.UUID, status string) error {
	listing, ok := f.listings[listingID]
	if !ok {
		return utils.ErrListingNotFound
	}
	listing.Status = status
	return nil
}

type fakeReviewStore struct {
	reviews []*review_models.Review
}

func (f *fakeReviewStore) Create(_ context.Context, review *review_models.Review) (*review_models.Review, error) {
	f.reviews = append(f.reviews, review)
	return review, nil
}

func (f *fakeReviewStore) ListByListing(_ context.Context, listingID uuid.UUID) ([]review_models.Review, error) {
	var out []review_models.Review
	for _, r := range f.reviews {
		if r.ListingID == listingID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func newTestRouter(hostID uuid.UUID) (*gin.Engine, *fakeListingStore, *fakeReviewStore) {
	listings := newFakeListingStore()
	reviews := &fakeReviewStore{}
	lc := &ListingController{Listings: listings, Reviews: reviews}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(auth.ContextGuestID, hostID.String())
	})
	router.POST("/api/listings", lc.CreateListing)
	router.GET("/api/listings", lc.GetListings)
	router.GET("/api/listings/:listing_id", lc.GetListing)
	router.PATCH("/api/listings/:listing_id/status", lc.UpdateListingStatus)
	router.POST("/api/listings/:listing_id/reviews", lc.CreateReview)
	router.GET("/api/listings/:listing_id/reviews", lc.GetReviews)

	return router, listings, reviews
}

func doJSON(router *gin.Engine, method, url string, payload interface{}) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, &body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCreateListing(t *testing.T) {
	hostID := uuid.New()
	router, listings, _ := newTestRouter(hostID)

	w := doJSON(router, http.MethodPost, "/api/listings", gin.H{
		"title":           "Lakeside Cabin",
		"location":        "Bahir Dar",
		"price_per_night": 100.00,
		"property_type":   "cabin",
		"max_guests":      4,
		"bedrooms":        2,
		"bathrooms":       1,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, listings.listings, 1)
	for _, l := range listings.listings {
		assert.Equal(t, hostID, l.HostID)
		assert.Equal(t, listing_models.StatusActive, l.Status)
	}
}

func TestCreateListingRejectsMissingFields(t *testing.T) {
	router, listings, _ := newTestRouter(uuid.New())

	w := doJSON(router, http.MethodPost, "/api/listings", gin.H{"title": "No price"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, listings.listings)
}

func TestGetListingNotFound(t *testing.T) {
	router, _, _ := newTestRouter(uuid.New())

	w := doJSON(router, http.MethodGet, "/api/listings/"+uuid.New().String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateListingStatusHostOnly(t *testing.T) {
	hostID := uuid.New()
	router, listings, _ := newTestRouter(hostID)

	listing, err := listing_models.NewListing(uuid.New(), "Someone else's place", "Addis Ababa", "", "apartment", 80, 2, 1, 1)
	require.NoError(t, err)
	listings.listings[listing.ID] = listing

	w := doJSON(router, http.MethodPatch, "/api/listings/"+listing.ID.String()+"/status", gin.H{"status": "inactive"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, listing_models.StatusActive, listing.Status)
}

func TestUpdateListingStatus(t *testing.T) {
	hostID := uuid.New()
	router, listings, _ := newTestRouter(hostID)

	listing, err := listing_models.NewListing(hostID, "My place", "Addis Ababa", "", "apartment", 80, 2, 1, 1)
	require.NoError(t, err)
	listings.listings[listing.ID] = listing

	w := doJSON(router, http.MethodPatch, "/api/listings/"+listing.ID.String()+"/status", gin.H{"status": "inactive"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, listing_models.StatusInactive, listing.Status)
}

func TestCreateReview(t *testing.T) {
	hostID := uuid.New()
	router, listings, reviews := newTestRouter(hostID)

	listing, err := listing_models.NewListing(uuid.New(), "Lakeside Cabin", "Bahir Dar", "", "cabin", 100, 4, 2, 1)
	require.NoError(t, err)
	listings.listings[listing.ID] = listing

	w := doJSON(router, http.MethodPost, "/api/listings/"+listing.ID.String()+"/reviews", gin.H{
		"rating":  5,
		"comment": "Great stay",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, reviews.reviews, 1)
	assert.Equal(t, 5, reviews.reviews[0].Rating)
	assert.Equal(t, listing.ID, reviews.reviews[0].ListingID)
}

func TestCreateReviewRejectsBadRating(t *testing.T) {
	router, listings, reviews := newTestRouter(uuid.New())

	listing, err := listing_models.NewListing(uuid.New(), "Lakeside Cabin", "Bahir Dar", "", "cabin", 100, 4, 2, 1)
	require.NoError(t, err)
	listings.listings[listing.ID] = listing

	w := doJSON(router, http.MethodPost, "/api/listings/"+listing.ID.String()+"/reviews", gin.H{"rating": 6})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, reviews.reviews)
}

func TestGetReviews(t *testing.T) {
	router, listings, reviews := newTestRouter(uuid.New())

	listing, err := listing_models.NewListing(uuid.New(), "Lakeside Cabin", "Bahir Dar", "", "cabin", 100, 4, 2, 1)
	require.NoError(t, err)
	listings.listings[listing.ID] = listing

	review, err := review_models.NewReview(listing.ID, uuid.New(), nil, 4, "Nice view")
	require.NoError(t, err)
	reviews.reviews = append(reviews.reviews, review)

	w := doJSON(router, http.MethodGet, "/api/listings/"+listing.ID.String()+"/reviews", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Reviews []review_models.Review `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Reviews, 1)
}
