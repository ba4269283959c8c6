package content

import (
	"context"
	"errors"
	"testing"

	"github.com/chumenium/spotlight/internal/model"
	"github.com/chumenium/spotlight/internal/repository"
	"github.com/chumenium/spotlight/internal/security"
)

// --- モック ---

type mockContentRepo struct {
	findByIDFn         func(ctx context.Context, id int) (*model.Content, error)
	findDetailFn       func(ctx context.Context, contentID, viewerID int) (*model.ContentDetail, error)
	findWithOwnerFn    func(ctx context.Context, id int) (*model.ContentWithOwner, error)
	listFn             func(ctx context.Context, limit, offset int) ([]model.ContentWithOwner, int, error)
	createFn           func(ctx context.Context, content *model.Content) (*model.Content, error)
	setSpotlightFlagFn func(ctx context.Context, contentID, userID int, on bool) (bool, error)
}

func (m *mockContentRepo) FindByID(ctx context.Context, id int) (*model.Content, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockContentRepo) FindDetail(ctx context.Context, contentID, viewerID int) (*model.ContentDetail, error) {
	if m.findDetailFn != nil {
		return m.findDetailFn(ctx, contentID, viewerID)
	}
	return nil, nil
}
func (m *mockContentRepo) FindWithOwner(ctx context.Context, id int) (*model.ContentWithOwner, error) {
	if m.findWithOwnerFn != nil {
		return m.findWithOwnerFn(ctx, id)
	}
	return nil, nil
}
func (m *mockContentRepo) List(ctx context.Context, limit, offset int) ([]model.ContentWithOwner, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return []model.ContentWithOwner{}, 0, nil
}
func (m *mockContentRepo) Create(ctx context.Context, content *model.Content) (*model.Content, error) {
	if m.createFn != nil {
		return m.createFn(ctx, content)
	}
	return content, nil
}
func (m *mockContentRepo) SetSpotlightFlag(ctx context.Context, contentID, userID int, on bool) (bool, error) {
	if m.setSpotlightFlagFn != nil {
		return m.setSpotlightFlagFn(ctx, contentID, userID, on)
	}
	return false, nil
}
func (m *mockContentRepo) SearchByTitle(ctx context.Context, query string, limit, offset int) ([]model.ContentWithOwner, int, error) {
	return nil, 0, nil
}
func (m *mockContentRepo) SuggestTitles(ctx context.Context, prefix string, limit int) ([]repository.TitleSuggestion, error) {
	return nil, nil
}
func (m *mockContentRepo) CountByUserID(ctx context.Context, userID int) (int, error) {
	return 0, nil
}
func (m *mockContentRepo) SumSpotlightByUserID(ctx context.Context, userID int) (int, error) {
	return 0, nil
}

type mockNotifier struct {
	notifySpotlightFn func(ctx context.Context, recipientID, actorID, contentID int) error
	calls             int
}

func (m *mockNotifier) NotifySpotlight(ctx context.Context, recipientID, actorID, contentID int) error {
	m.calls++
	if m.notifySpotlightFn != nil {
		return m.notifySpotlightFn(ctx, recipientID, actorID, contentID)
	}
	return nil
}

func assertAPIErrorCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Code != wantCode {
		t.Errorf("Code = %q, want %q", apiErr.Code, wantCode)
	}
}

// --- テスト ---

// TestService_GetDetail はコンテンツ詳細取得が成功することを検証する。
func TestService_GetDetail(t *testing.T) {
	next := 43
	repo := &mockContentRepo{
		findDetailFn: func(ctx context.Context, contentID, viewerID int) (*model.ContentDetail, error) {
			if contentID != 42 || viewerID != 7 {
				t.Errorf("FindDetail(%d, %d), want (42, 7)", contentID, viewerID)
			}
			return &model.ContentDetail{
				Content:       model.Content{ID: 42, UserID: 3, Title: "テスト動画"},
				Username:      "投稿者",
				NextContentID: &next,
			}, nil
		},
	}
	svc := NewService(repo, nil, security.NewTextSanitizer())

	detail, err := svc.GetDetail(context.Background(), 42, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.ID != 42 {
		t.Errorf("ID = %d, want 42", detail.ID)
	}
	if detail.SpotlightFlag || detail.BookmarkFlag {
		t.Error("flags should default to false")
	}
	if detail.NextContentID == nil || *detail.NextContentID != 43 {
		t.Errorf("NextContentID = %v, want 43", detail.NextContentID)
	}
}

// TestService_GetDetail_NotFound は存在しないコンテンツがNotFoundエラーになることを検証する。
func TestService_GetDetail_NotFound(t *testing.T) {
	svc := NewService(&mockContentRepo{}, nil, security.NewTextSanitizer())

	_, err := svc.GetDetail(context.Background(), 999, 1)
	if err == nil {
		t.Fatal("expected error")
	}
	assertAPIErrorCode(t, err, model.ErrCodeNotFound)
}

// TestService_Create はコンテンツ作成が成功することを検証する。
func TestService_Create(t *testing.T) {
	repo := &mockContentRepo{
		createFn: func(ctx context.Context, content *model.Content) (*model.Content, error) {
			created := *content
			created.ID = 100
			return &created, nil
		},
	}
	svc := NewService(repo, nil, security.NewTextSanitizer())

	created, err := svc.Create(context.Background(), 1, "新しい動画", "https://example.com", "/contents/100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 100 {
		t.Errorf("ID = %d, want 100", created.ID)
	}
	if created.UserID != 1 {
		t.Errorf("UserID = %d, want 1", created.UserID)
	}
}

// TestService_Create_EmptyTitle はタイトル欠落が検証エラーになることを検証する。
func TestService_Create_EmptyTitle(t *testing.T) {
	svc := NewService(&mockContentRepo{}, nil, security.NewTextSanitizer())

	tests := []struct {
		name  string
		title string
	}{
		{"空文字列", ""},
		{"空白のみ", "   "},
		{"タグのみ（サニタイズ後に空）", "<script>alert(1)</script>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1, tt.title, "", "")
			if err == nil {
				t.Fatal("expected error")
			}
			assertAPIErrorCode(t, err, model.ErrCodeValidation)
		})
	}
}

// TestService_Create_SanitizesTitle はタイトルのHTMLタグが除去されることを検証する。
func TestService_Create_SanitizesTitle(t *testing.T) {
	var saved string
	repo := &mockContentRepo{
		createFn: func(ctx context.Context, content *model.Content) (*model.Content, error) {
			saved = content.Title
			return content, nil
		},
	}
	svc := NewService(repo, nil, security.NewTextSanitizer())

	_, err := svc.Create(context.Background(), 1, "<b>タイトル</b>", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved != "タイトル" {
		t.Errorf("saved title = %q, want %q", saved, "タイトル")
	}
}

// TestService_SetSpotlight_NotifiesOwner は新規スポットライトで投稿者に通知されることを検証する。
func TestService_SetSpotlight_NotifiesOwner(t *testing.T) {
	repo := &mockContentRepo{
		findByIDFn: func(ctx context.Context, id int) (*model.Content, error) {
			return &model.Content{ID: 42, UserID: 3}, nil
		},
		setSpotlightFlagFn: func(ctx context.Context, contentID, userID int, on bool) (bool, error) {
			return true, nil
		},
	}
	notifier := &mockNotifier{
		notifySpotlightFn: func(ctx context.Context, recipientID, actorID, contentID int) error {
			if recipientID != 3 || actorID != 7 || contentID != 42 {
				t.Errorf("NotifySpotlight(%d, %d, %d), want (3, 7, 42)", recipientID, actorID, contentID)
			}
			return nil
		},
	}
	svc := NewService(repo, notifier, security.NewTextSanitizer())

	if err := svc.SetSpotlight(context.Background(), 42, 7, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notifier.calls != 1 {
		t.Errorf("notifier calls = %d, want 1", notifier.calls)
	}
}

// TestService_SetSpotlight_NoNotification は通知不要なケースを検証する。
func TestService_SetSpotlight_NoNotification(t *testing.T) {
	tests := []struct {
		name    string
		ownerID int
		changed bool
		on      bool
	}{
		{"自分の投稿には通知しない", 7, true, true},
		{"フラグ未変化（冪等）では通知しない", 3, false, true},
		{"解除では通知しない", 3, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockContentRepo{
				findByIDFn: func(ctx context.Context, id int) (*model.Content, error) {
					return &model.Content{ID: 42, UserID: tt.ownerID}, nil
				},
				setSpotlightFlagFn: func(ctx context.Context, contentID, userID int, on bool) (bool, error) {
					return tt.changed, nil
				},
			}
			notifier := &mockNotifier{}
			svc := NewService(repo, notifier, security.NewTextSanitizer())

			if err := svc.SetSpotlight(context.Background(), 42, 7, tt.on); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if notifier.calls != 0 {
				t.Errorf("notifier calls = %d, want 0", notifier.calls)
			}
		})
	}
}

// TestService_SetSpotlight_NotifierErrorIgnored は通知失敗が操作を失敗させないことを検証する。
func TestService_SetSpotlight_NotifierErrorIgnored(t *testing.T) {
	repo := &mockContentRepo{
		findByIDFn: func(ctx context.Context, id int) (*model.Content, error) {
			return &model.Content{ID: 42, UserID: 3}, nil
		},
		setSpotlightFlagFn: func(ctx context.Context, contentID, userID int, on bool) (bool, error) {
			return true, nil
		},
	}
	notifier := &mockNotifier{
		notifySpotlightFn: func(ctx context.Context, recipientID, actorID, contentID int) error {
			return errors.New("notification db error")
		},
	}
	svc := NewService(repo, notifier, security.NewTextSanitizer())

	if err := svc.SetSpotlight(context.Background(), 42, 7, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestService_SetSpotlight_NotFound は存在しないコンテンツがNotFoundエラーになることを検証する。
func TestService_SetSpotlight_NotFound(t *testing.T) {
	svc := NewService(&mockContentRepo{}, nil, security.NewTextSanitizer())

	err := svc.SetSpotlight(context.Background(), 999, 1, true)
	if err == nil {
		t.Fatal("expected error")
	}
	assertAPIErrorCode(t, err, model.ErrCodeNotFound)
}
