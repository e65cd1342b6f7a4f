package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollector_RecordAndScrape(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest(200, 5*time.Millisecond)
	c.RecordHTTPRequest(404, time.Millisecond)
	c.RecordQueryLatency("ExecContext", 2*time.Millisecond)
	c.RecordSignup()
	c.RecordLogin("success")
	c.RecordLogin("failure")
	c.RecordBooking("persisted")
	c.RecordPayment()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics scrape returned %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		`studio_http_requests_total{status_code="200"} 1`,
		`studio_http_requests_total{status_code="404"} 1`,
		`studio_signups_total 1`,
		`studio_logins_total{outcome="failure"} 1`,
		`studio_bookings_total{outcome="persisted"} 1`,
		`studio_payments_recorded_total 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}

func TestMiddleware_RecordsStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	h := Middleware(c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusTeapot {
		t.Fatalf("handler status not propagated, got %d", rr.Code)
	}

	scrape := httptest.NewRecorder()
	Handler(reg).ServeHTTP(scrape, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(scrape.Body.String(), `studio_http_requests_total{status_code="418"} 1`) {
		t.Error("middleware did not record the response status")
	}
}

func TestMiddleware_ImplicitOK(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	h := Middleware(c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok")) // no explicit WriteHeader
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	scrape := httptest.NewRecorder()
	Handler(reg).ServeHTTP(scrape, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(scrape.Body.String(), `studio_http_requests_total{status_code="200"} 1`) {
		t.Error("implicit 200 not recorded")
	}
}
