package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pocketclass/handlers"

	"github.com/gin-gonic/gin"
)

func TestProtectedRoutesRequireToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	called := false
	stub := func(c *gin.Context) { called = true }
	RegisterRoutes(r, &handlers.HandlerBundle{
		GetDaySlots: stub, StartCheckout: stub, ConfirmCheckout: stub, GetEligibility: stub,
		CancelBooking: stub, RescheduleBooking: stub, GetRefundQuote: stub, RefundBooking: stub,
		AnalyzeReview: stub,
	})

	paths := []struct{ method, path string }{
		{http.MethodPost, "/api/bookings/checkout"},
		{http.MethodPost, "/api/bookings/b1/cancel"},
		{http.MethodGet, "/api/bookings/b1/refund"},
		{http.MethodPost, "/api/ai/reviews/analyze"},
	}
	for _, p := range paths {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(p.method, p.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: status = %d", p.method, p.path, w.Code)
		}
	}
	if called {
		t.Fatal("handler ran without authentication")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/classes/c1/slots?date=2025-07-01", nil))
	if w.Code != http.StatusOK || !called {
		t.Fatalf("slots are public, got %d", w.Code)
	}
}

func TestHealthBeforeFirstCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterHealthRoute(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", w.Code)
	}
}
