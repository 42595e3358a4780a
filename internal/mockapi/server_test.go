package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/five82/lostfound/internal/auth"
	"github.com/five82/lostfound/internal/lostfound"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, token string) (*Server, *httptest.Server) {
	t.Helper()
	n := 0
	srv := New(token, Seed(fixedNow), WithClock(func() time.Time { return fixedNow }), WithIDs(func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func newClient(t *testing.T, url string, tokens auth.TokenSource) *lostfound.Client {
	t.Helper()
	c, err := lostfound.NewClient(url, tokens, lostfound.WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestServer_ListAndCreateThroughClient(t *testing.T) {
	srv, ts := newTestServer(t, "dev-token")
	c := newClient(t, ts.URL, auth.Static("dev-token"))
	ctx := context.Background()

	items, err := c.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != len(Seed(fixedNow)) {
		t.Fatalf("listed %d items, want %d", len(items), len(Seed(fixedNow)))
	}
	if items[0].Date != "2024-04-30" {
		t.Fatalf("seed date = %q, want 2024-04-30", items[0].Date)
	}

	created, err := c.CreateItem(ctx, lostfound.Draft{
		Title:       " Red scarf ",
		Description: "Wool",
		Location:    "Bus 7",
		Date:        "2024-05-01",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if created.ID != "new-1" || created.Title != "Red scarf" || created.Status != lostfound.StatusLost {
		t.Fatalf("created = %+v", created)
	}

	items, err = c.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems after create: %v", err)
	}
	if len(items) != len(Seed(fixedNow))+1 || items[0].ID != "new-1" {
		t.Fatalf("new item not listed first: %+v", items[0])
	}
	if got := len(srv.Items()); got != len(items) {
		t.Fatalf("Items() = %d, want %d", got, len(items))
	}
}

func TestServer_ValidationFailureReturnsFields(t *testing.T) {
	srv, ts := newTestServer(t, "dev-token")
	c := newClient(t, ts.URL, auth.Static("dev-token"))

	_, err := c.CreateItem(context.Background(), lostfound.Draft{Title: "Keys", Description: "  "})
	var serverErr *lostfound.ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("err = %v, want ServerError", err)
	}
	if serverErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", serverErr.StatusCode)
	}
	for _, field := range []string{"description", "location", "date"} {
		if _, ok := serverErr.Fields[field]; !ok {
			t.Fatalf("missing field error for %s: %v", field, serverErr.Fields)
		}
	}
	if _, ok := serverErr.Fields["title"]; ok {
		t.Fatalf("unexpected title error: %v", serverErr.Fields)
	}
	if len(srv.Items()) != len(Seed(fixedNow)) {
		t.Fatalf("invalid draft was stored")
	}
}

func TestServer_RejectsUnknownStatusAndBadImage(t *testing.T) {
	_, ts := newTestServer(t, "")
	c := newClient(t, ts.URL, auth.Static("anything"))
	base := lostfound.Draft{Title: "T", Description: "D", Location: "L", Date: "2024-05-01"}

	tests := []struct {
		name  string
		draft func(lostfound.Draft) lostfound.Draft
		field string
	}{
		{"status", func(d lostfound.Draft) lostfound.Draft { d.Status = "stolen"; return d }, "status"},
		{"image", func(d lostfound.Draft) lostfound.Draft { d.Image = "file:///tmp/x.jpg"; return d }, "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.CreateItem(context.Background(), tt.draft(base))
			var serverErr *lostfound.ServerError
			if !errors.As(err, &serverErr) || serverErr.Fields[tt.field] == "" {
				t.Fatalf("err = %v, want field error for %s", err, tt.field)
			}
		})
	}
}

func TestServer_Auth(t *testing.T) {
	_, ts := newTestServer(t, "dev-token")

	_, err := newClient(t, ts.URL, auth.Static("wrong")).ListItems(context.Background())
	var authErr *lostfound.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("wrong token err = %v, want AuthError", err)
	}

	resp, err := http.Get(ts.URL + "/api/items")
	if err != nil {
		t.Fatalf("GET without token: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d, want 200", resp.StatusCode)
	}
}

func TestServer_AcceptsJWTAndClientRejectsExpiredOne(t *testing.T) {
	sign := func(exp time.Time) string {
		claims := jwt.RegisteredClaims{Subject: "tester", ExpiresAt: jwt.NewNumericDate(exp)}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("SignedString: %v", err)
		}
		return token
	}

	valid := sign(time.Now().Add(time.Hour))
	_, ts := newTestServer(t, valid)
	if _, err := newClient(t, ts.URL, auth.Static(valid)).ListItems(context.Background()); err != nil {
		t.Fatalf("valid JWT rejected: %v", err)
	}

	expired := sign(time.Now().Add(-time.Hour))
	_, ts = newTestServer(t, expired)
	_, err := newClient(t, ts.URL, auth.Static(expired)).ListItems(context.Background())
	var authErr *lostfound.AuthError
	if !errors.As(err, &authErr) || !strings.Contains(authErr.Reason, "expired") {
		t.Fatalf("expired JWT err = %v, want expired AuthError", err)
	}
}

func TestServer_MalformedBody(t *testing.T) {
	_, ts := newTestServer(t, "")
	resp, err := http.Post(ts.URL+"/api/items", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
