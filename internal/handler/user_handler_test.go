package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chumenium/spotlight/internal/model"
	"github.com/chumenium/spotlight/internal/user"
)

// mockUserService はUserServiceInterfaceのモック実装。
type mockUserService struct {
	getProfileFn    func(ctx context.Context, userID int) (*user.Profile, error)
	updateProfileFn func(ctx context.Context, callerID, targetID int, username, iconImgPath string) (*model.User, error)
	getPlaylistsFn  func(ctx context.Context, userID int) (*model.UserPlaylists, error)
}

func (m *mockUserService) GetProfile(ctx context.Context, userID int) (*user.Profile, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockUserService) UpdateProfile(ctx context.Context, callerID, targetID int, username, iconImgPath string) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, callerID, targetID, username, iconImgPath)
	}
	return nil, nil
}

func (m *mockUserService) GetPlaylists(ctx context.Context, userID int) (*model.UserPlaylists, error) {
	if m.getPlaylistsFn != nil {
		return m.getPlaylistsFn(ctx, userID)
	}
	return nil, nil
}

// --- GET /api/users/{id} テスト ---

func TestUserHandler_GetUser_Success(t *testing.T) {
	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	svc := &mockUserService{
		getProfileFn: func(ctx context.Context, userID int) (*user.Profile, error) {
			if userID != 3 {
				t.Errorf("userID = %d, want 3", userID)
			}
			return &user.Profile{
				User: model.User{
					ID:          3,
					Username:    "hanako",
					Email:       "hanako@example.com",
					IconImgPath: "/icons/3.png",
					CreatedAt:   created,
				},
				PostCount: 12,
			}, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/3", nil)
	req = withChiURLParam(req, "id", "3")
	w := httptest.NewRecorder()

	h.GetUser(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	env := decodeEnvelope(t, w)
	var data struct {
		User struct {
			UserID      int    `json:"userID"`
			Username    string `json:"username"`
			Email       string `json:"email"`
			IconImgPath string `json:"iconimgpath"`
			PostsCount  int    `json:"postsCount"`
			CreatedAt   string `json:"createdAt"`
		} `json:"user"`
	}
	decodeData(t, env, &data)

	if data.User.UserID != 3 || data.User.Username != "hanako" {
		t.Errorf("user = %+v, want id 3 hanako", data.User)
	}
	if data.User.PostsCount != 12 {
		t.Errorf("postsCount = %d, want 12", data.User.PostsCount)
	}
	if data.User.CreatedAt != "2024-01-15T00:00:00Z" {
		t.Errorf("createdAt = %q, want RFC3339", data.User.CreatedAt)
	}
}

func TestUserHandler_GetUser_NotFound(t *testing.T) {
	svc := &mockUserService{
		getProfileFn: func(ctx context.Context, userID int) (*user.Profile, error) {
			return nil, model.NewUserNotFoundError(userID)
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/999", nil)
	req = withChiURLParam(req, "id", "999")
	w := httptest.NewRecorder()

	h.GetUser(w, req)

	assertErrorCode(t, w, http.StatusNotFound, model.ErrCodeNotFound)
}

func TestUserHandler_GetUser_InvalidID(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/abc", nil)
	req = withChiURLParam(req, "id", "abc")
	w := httptest.NewRecorder()

	h.GetUser(w, req)

	assertErrorCode(t, w, http.StatusBadRequest, model.ErrCodeValidation)
}

// --- PUT /api/users/{id} テスト ---

func TestUserHandler_UpdateUser_Success(t *testing.T) {
	svc := &mockUserService{
		updateProfileFn: func(ctx context.Context, callerID, targetID int, username, iconImgPath string) (*model.User, error) {
			if callerID != 7 || targetID != 7 {
				t.Errorf("caller/target = %d/%d, want 7/7", callerID, targetID)
			}
			if username != "new-name" {
				t.Errorf("username = %q, want new-name", username)
			}
			return &model.User{
				ID:          7,
				Username:    username,
				IconImgPath: "/icons/7.png",
				UpdatedAt:   time.Now(),
			}, nil
		},
	}
	h := NewUserHandler(svc)

	body := `{"username": "new-name"}`
	req := httptest.NewRequest(http.MethodPut, "/api/users/7", bytes.NewBufferString(body))
	req = withIdentity(req, 7, nil)
	req = withChiURLParam(req, "id", "7")
	w := httptest.NewRecorder()

	h.UpdateUser(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	env := decodeEnvelope(t, w)
	var data struct {
		User struct {
			UserID   int    `json:"userID"`
			Username string `json:"username"`
		} `json:"user"`
	}
	decodeData(t, env, &data)
	if data.User.Username != "new-name" {
		t.Errorf("username = %q, want new-name", data.User.Username)
	}
}

func TestUserHandler_UpdateUser_Unauthenticated(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodPut, "/api/users/7", bytes.NewBufferString(`{"username": "x"}`))
	req = withChiURLParam(req, "id", "7")
	w := httptest.NewRecorder()

	h.UpdateUser(w, req)

	assertErrorCode(t, w, http.StatusUnauthorized, model.ErrCodeAuthentication)
}

func TestUserHandler_UpdateUser_NotSelf(t *testing.T) {
	svc := &mockUserService{
		updateProfileFn: func(ctx context.Context, callerID, targetID int, username, iconImgPath string) (*model.User, error) {
			return nil, model.NewAuthorizationError("他のユーザーのプロフィールは更新できません")
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/users/3", bytes.NewBufferString(`{"username": "x"}`))
	req = withIdentity(req, 7, nil)
	req = withChiURLParam(req, "id", "3")
	w := httptest.NewRecorder()

	h.UpdateUser(w, req)

	assertErrorCode(t, w, http.StatusForbidden, model.ErrCodeAuthorization)
}

// --- GET /api/users/{id}/playlists テスト ---

func TestUserHandler_GetUserPlaylists_Success(t *testing.T) {
	svc := &mockUserService{
		getPlaylistsFn: func(ctx context.Context, userID int) (*model.UserPlaylists, error) {
			return &model.UserPlaylists{
				UserID:         3,
				Username:       "hanako",
				IconImgPath:    "/icons/3.png",
				TotalSpotlight: 34,
				Playlists: []model.Playlist{
					{PlaylistID: 1, ContentIDs: []int{10, 11}},
					{PlaylistID: 2, ContentIDs: nil},
				},
			}, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/3/playlists", nil)
	req = withChiURLParam(req, "id", "3")
	w := httptest.NewRecorder()

	h.GetUserPlaylists(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	env := decodeEnvelope(t, w)
	var data struct {
		UserID         int `json:"userID"`
		TotalSpotlight int `json:"totalSpotlight"`
		Playlists      []struct {
			PlaylistID int   `json:"playlistID"`
			ContentIDs []int `json:"contentIDs"`
		} `json:"playlists"`
	}
	decodeData(t, env, &data)

	if data.UserID != 3 || data.TotalSpotlight != 34 {
		t.Errorf("userID/totalSpotlight = %d/%d, want 3/34", data.UserID, data.TotalSpotlight)
	}
	if len(data.Playlists) != 2 {
		t.Fatalf("playlists = %d, want 2", len(data.Playlists))
	}
	if len(data.Playlists[0].ContentIDs) != 2 {
		t.Errorf("contentIDs = %v, want [10 11]", data.Playlists[0].ContentIDs)
	}
	// 中身が無い再生リストはnullではなく空配列で返ること。
	if data.Playlists[1].ContentIDs == nil {
		t.Error("empty playlist contentIDs = null, want []")
	}
}

func TestUserHandler_GetUserPlaylists_NotFound(t *testing.T) {
	svc := &mockUserService{
		getPlaylistsFn: func(ctx context.Context, userID int) (*model.UserPlaylists, error) {
			return nil, model.NewUserNotFoundError(userID)
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/999/playlists", nil)
	req = withChiURLParam(req, "id", "999")
	w := httptest.NewRecorder()

	h.GetUserPlaylists(w, req)

	assertErrorCode(t, w, http.StatusNotFound, model.ErrCodeNotFound)
}
