package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chumenium/spotlight/internal/auth"
	"github.com/chumenium/spotlight/internal/model"
	"github.com/chumenium/spotlight/internal/search"
)

const routerTestSecret = "router-test-secret"

// mockUserFinder はmiddleware.UserFinderのモック実装。
type mockUserFinder struct {
	findByFirebaseUIDFn func(ctx context.Context, firebaseUID string) (*model.User, error)
}

func (m *mockUserFinder) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*model.User, error) {
	if m.findByFirebaseUIDFn != nil {
		return m.findByFirebaseUIDFn(ctx, firebaseUID)
	}
	return &model.User{ID: 7, FirebaseUID: firebaseUID}, nil
}

// mockPinger はPingerのモック実装。
type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error { return m.err }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(&RouterDeps{
		Guard:             auth.NewGuard(routerTestSecret),
		UserFinder:        &mockUserFinder{},
		CORSAllowedOrigin: "*",
		AuthService:       &mockAuthService{},
		ContentService:    &mockContentService{},
		PostService:       &mockPostService{},
		CommentService: &mockCommentService{
			countFn: func(ctx context.Context, contentID int) (*model.CommentCount, error) {
				return &model.CommentCount{ContentID: contentID}, nil
			},
		},
		NotificationService: &mockNotificationService{
			listFn: func(ctx context.Context, userID, limit, offset int) ([]model.NotificationWithActor, int, error) {
				return []model.NotificationWithActor{}, 0, nil
			},
		},
		SearchService: &mockSearchService{
			searchFn: func(ctx context.Context, query, searchType string, limit, offset int) (*search.Result, error) {
				return &search.Result{}, nil
			},
		},
		UserService: &mockUserService{},
	})
}

func issueRouterTestToken(t *testing.T) string {
	t.Helper()
	issuer := auth.NewIssuer(routerTestSecret, 24)
	token, err := issuer.Issue(&auth.Claims{FirebaseUID: "uid-123"}, time.Now())
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func TestRouter_HealthIsPublic(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_PublicReadRoutesDoNotRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	paths := []string{
		"/api/posts",
		"/api/comments/42",
		"/api/comments/42/count",
		"/api/search?q=test",
		"/api/search/suggestions?q=test",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code == http.StatusUnauthorized {
				t.Errorf("%s returned 401, should be public", path)
			}
		})
	}
}

func TestRouter_GuardedRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/posts"},
		{http.MethodPost, "/api/comments"},
		{http.MethodPost, "/api/posts/42/spotlight"},
		{http.MethodDelete, "/api/posts/42/spotlight"},
		{http.MethodDelete, "/api/comments/42"},
		{http.MethodGet, "/api/notifications"},
		{http.MethodPut, "/api/notifications/1/read"},
		{http.MethodPut, "/api/users/7"},
		{http.MethodPost, "/api/auth/update_token"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRouter_GuardedRouteAcceptsValidToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	req.Header.Set("Authorization", "Bearer "+issueRouterTestToken(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_GuardedRouteRejectsExpiredToken(t *testing.T) {
	router := newTestRouter(t)

	issuer := auth.NewIssuer(routerTestSecret, 1)
	token, err := issuer.Issue(&auth.Claims{FirebaseUID: "uid-123"}, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRouter_MetricsRouteAbsentWithoutGatherer(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestHealthHandler_UnhealthyWhenDBUnreachable(t *testing.T) {
	h := NewHealthHandler(&mockPinger{err: context.DeadlineExceeded})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestHealthHandler_HealthyWithDB(t *testing.T) {
	h := NewHealthHandler(&mockPinger{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}
