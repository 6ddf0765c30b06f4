package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Vladiumnika/forumblackdynasty/internal/access"
	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/Vladiumnika/forumblackdynasty/internal/service"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const (
	topicID   = "65f0a1b2c3d4e5f601234568"
	commentID = "65f0a1b2c3d4e5f601234569"
)

var createdAt = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type route struct {
	method, pattern string
	handler         func(*Handlers) http.HandlerFunc
}

// call прогоняет один запрос через chi-роутер с единственным маршрутом.
// actor != nil кладётся в контекст так же, как это делает AuthBearer.
func call(t *testing.T, svc Forum, rt route, target string, body any, actor *access.Actor) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	h := New(svc)
	r := chi.NewRouter()
	r.Method(rt.method, rt.pattern, rt.handler(h))

	req := httptest.NewRequest(rt.method, target, &buf)
	req.RemoteAddr = "203.0.113.7:4242"
	req.Header.Set("X-Request-Id", "rid-test")
	if actor != nil {
		req = req.WithContext(access.Into(req.Context(), *actor))
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))

	return v
}

type errBody struct {
	Error struct {
		Code      string `json:"code"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

func newMock(t *testing.T) *MockForum {
	return NewMockForum(gomock.NewController(t))
}

func user() access.Actor {
	return access.Actor{ID: uuid.New(), Role: models.RoleUser}
}

func TestRegister(t *testing.T) {
	rt := route{http.MethodPost, "/auth/register", func(h *Handlers) http.HandlerFunc { return h.Register }}

	t.Run("created", func(t *testing.T) {
		svc := newMock(t)
		id := uuid.New()
		svc.EXPECT().Register(gomock.Any(), service.RegisterInput{
			Username:  "alice",
			Email:     "alice@example.com",
			Password:  "secret1",
			Challenge: "captcha",
			RemoteIP:  "203.0.113.7",
		}).Return(&service.RegisterResult{
			User:      &models.User{ID: id, Username: "alice", Email: "alice@example.com", Role: models.RoleUser},
			EmailSent: true,
		}, nil)

		rr := call(t, svc, rt, "/auth/register", map[string]string{
			"username": "alice", "email": "alice@example.com", "password": "secret1", "recaptchaToken": "captcha",
		}, nil)

		require.Equal(t, http.StatusCreated, rr.Code)
		got := decode[registerResponse](t, rr)
		require.True(t, got.EmailSent)
		require.Equal(t, id.String(), got.User.ID)
		require.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("unknown_field_400", func(t *testing.T) {
		rr := call(t, newMock(t), rt, "/auth/register", `{"username":"a","email":"a@b.c","password":"x","admin":true}`, nil)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		require.Equal(t, "rid-test", decode[errBody](t, rr).Error.RequestID)
	})

	t.Run("missing_field_400", func(t *testing.T) {
		rr := call(t, newMock(t), rt, "/auth/register", map[string]string{"email": "a@b.c"}, nil)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		require.Equal(t, "invalid_argument", decode[errBody](t, rr).Error.Code)
	})

	t.Run("password_too_long_400", func(t *testing.T) {
		rr := call(t, newMock(t), rt, "/auth/register", map[string]string{
			"username": "alice", "email": "alice@example.com", "password": strings.Repeat("p", 100),
		}, nil)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		require.Equal(t, "invalid_argument", decode[errBody](t, rr).Error.Code)
	})

	t.Run("conflict_409", func(t *testing.T) {
		svc := newMock(t)
		svc.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("op: %w", service.ErrConflict))

		rr := call(t, svc, rt, "/auth/register", map[string]string{
			"username": "alice", "email": "alice@example.com", "password": "secret1",
		}, nil)
		require.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestLogin_ReturnsTokens(t *testing.T) {
	rt := route{http.MethodPost, "/auth/login", func(h *Handlers) http.HandlerFunc { return h.Login }}

	svc := newMock(t)
	svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(&service.LoginResult{
		Tokens: &models.TokenPair{AccessToken: "acc", RefreshToken: "ref", AccessExpiresAt: createdAt},
		User:   &models.User{ID: uuid.New(), Username: "alice"},
	}, nil)

	rr := call(t, svc, rt, "/auth/login", map[string]string{"email": "alice@example.com", "password": "secret1"}, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[tokensResponse](t, rr)
	require.Equal(t, "acc", got.AccessToken)
	require.Equal(t, "ref", got.RefreshToken)
	require.NotNil(t, got.User)
	require.Equal(t, "alice", got.User.Username)
}

func TestLogin_Unauthorized(t *testing.T) {
	rt := route{http.MethodPost, "/auth/login", func(h *Handlers) http.HandlerFunc { return h.Login }}

	svc := newMock(t)
	svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("op: %w", service.ErrUnauthorized))

	rr := call(t, svc, rt, "/auth/login", map[string]string{"email": "a@b.c", "password": "nope"}, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestVerifyEmail_TokenFromPath(t *testing.T) {
	rt := route{http.MethodGet, "/auth/verify/{token}", func(h *Handlers) http.HandlerFunc { return h.VerifyEmail }}

	svc := newMock(t)
	svc.EXPECT().VerifyEmail(gomock.Any(), "abc123").Return(nil)

	rr := call(t, svc, rt, "/auth/verify/abc123", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestLogout_NoContent(t *testing.T) {
	rt := route{http.MethodPost, "/auth/logout", func(h *Handlers) http.HandlerFunc { return h.Logout }}

	svc := newMock(t)
	svc.EXPECT().Logout(gomock.Any(), "ref").Return(nil)

	rr := call(t, svc, rt, "/auth/logout", map[string]string{"refreshToken": "ref"}, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestListTopics_PaginationQuery(t *testing.T) {
	rt := route{http.MethodGet, "/forum/categories/{categoryId}/topics", func(h *Handlers) http.HandlerFunc { return h.ListTopics }}

	t.Run("limit_alias", func(t *testing.T) {
		svc := newMock(t)
		author := uuid.New()
		svc.EXPECT().ListTopics(gomock.Any(), service.ListTopicsInput{
			CategoryID: "cat1", Query: "go", Page: 2, PageSize: 5,
		}).Return(&models.Page[models.Topic]{
			Items:    []models.Topic{{ID: topicID, Title: "Go", AuthorID: author, AuthorName: "alice", CreatedAt: createdAt}},
			Total:    6,
			Page:     2,
			PageSize: 5,
		}, nil)

		rr := call(t, svc, rt, "/forum/categories/cat1/topics?page=2&limit=5&q=go", nil, nil)

		require.Equal(t, http.StatusOK, rr.Code)
		got := decode[pageResponse[topicResponse]](t, rr)
		require.EqualValues(t, 6, got.Total)
		require.Len(t, got.Items, 1)
		require.Equal(t, author.String(), got.Items[0].AuthorID)
		require.Equal(t, "alice", got.Items[0].AuthorName)
	})

	t.Run("bad_page_400", func(t *testing.T) {
		rr := call(t, newMock(t), rt, "/forum/categories/cat1/topics?page=abc", nil, nil)
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("empty_page_items_is_array", func(t *testing.T) {
		svc := newMock(t)
		svc.EXPECT().ListTopics(gomock.Any(), gomock.Any()).Return(&models.Page[models.Topic]{Page: 1, PageSize: 20}, nil)

		rr := call(t, svc, rt, "/forum/categories/cat1/topics", nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Contains(t, rr.Body.String(), `"items":[]`)
	})
}

func TestSearch_PageSizeParam(t *testing.T) {
	rt := route{http.MethodGet, "/forum/search", func(h *Handlers) http.HandlerFunc { return h.Search }}

	svc := newMock(t)
	svc.EXPECT().GlobalSearch(gomock.Any(), service.SearchInput{Query: "chi", Page: 1, PageSize: 10}).
		Return(&models.Page[models.Topic]{Page: 1, PageSize: 10}, nil)

	rr := call(t, svc, rt, "/forum/search?q=chi&page=1&pageSize=10", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestGetTopic_NotFound(t *testing.T) {
	rt := route{http.MethodGet, "/forum/topics/{topicId}", func(h *Handlers) http.HandlerFunc { return h.GetTopic }}

	svc := newMock(t)
	svc.EXPECT().GetTopic(gomock.Any(), "missing").Return(nil, fmt.Errorf("op: %w", service.ErrNotFound))

	rr := call(t, svc, rt, "/forum/topics/missing", nil, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "not_found", decode[errBody](t, rr).Error.Code)
}

func TestCreateTopic_PassesActor(t *testing.T) {
	rt := route{http.MethodPost, "/forum/topics", func(h *Handlers) http.HandlerFunc { return h.CreateTopic }}

	a := user()
	svc := newMock(t)
	svc.EXPECT().CreateTopic(gomock.Any(), a, service.CreateTopicInput{
		Title: "Hello", Content: "World", CategoryID: "65f0a1b2c3d4e5f601234567",
	}).Return(&models.Topic{ID: topicID, Title: "Hello", AuthorID: a.ID}, nil)

	rr := call(t, svc, rt, "/forum/topics", map[string]string{
		"title": "Hello", "content": "World", "categoryId": "65f0a1b2c3d4e5f601234567",
	}, &a)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, topicID, decode[topicResponse](t, rr).ID)
}

func TestUpdateTopic_PartialAndForbidden(t *testing.T) {
	rt := route{http.MethodPut, "/forum/topics/{topicId}", func(h *Handlers) http.HandlerFunc { return h.UpdateTopic }}

	a := user()
	locked := true
	svc := newMock(t)
	svc.EXPECT().UpdateTopic(gomock.Any(), a, topicID, service.UpdateTopicInput{IsLocked: &locked}).
		Return(nil, fmt.Errorf("op: %w", service.ErrForbidden))

	rr := call(t, svc, rt, "/forum/topics/"+topicID, map[string]bool{"isLocked": true}, &a)
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestDeleteTopic_NoContent(t *testing.T) {
	rt := route{http.MethodDelete, "/forum/topics/{topicId}", func(h *Handlers) http.HandlerFunc { return h.DeleteTopic }}

	a := user()
	svc := newMock(t)
	svc.EXPECT().DeleteTopic(gomock.Any(), a, topicID).Return(nil)

	rr := call(t, svc, rt, "/forum/topics/"+topicID, nil, &a)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestComments(t *testing.T) {
	a := user()

	t.Run("create_reply", func(t *testing.T) {
		rt := route{http.MethodPost, "/forum/comments", func(h *Handlers) http.HandlerFunc { return h.CreateComment }}

		svc := newMock(t)
		svc.EXPECT().CreateComment(gomock.Any(), a, service.CreateCommentInput{
			TopicID: topicID, Content: "hi", ParentID: commentID,
		}).Return(&models.Comment{ID: "c2", TopicID: topicID, ParentID: commentID, AuthorID: a.ID}, nil)

		rr := call(t, svc, rt, "/forum/comments", map[string]string{
			"topicId": topicID, "content": "hi", "parentId": commentID,
		}, &a)

		require.Equal(t, http.StatusCreated, rr.Code)
		require.Equal(t, commentID, decode[commentResponse](t, rr).ParentID)
	})

	t.Run("locked_topic_403", func(t *testing.T) {
		rt := route{http.MethodPost, "/forum/comments", func(h *Handlers) http.HandlerFunc { return h.CreateComment }}

		svc := newMock(t)
		svc.EXPECT().CreateComment(gomock.Any(), a, gomock.Any()).Return(nil, fmt.Errorf("op: %w", service.ErrForbidden))

		rr := call(t, svc, rt, "/forum/comments", map[string]string{"topicId": topicID, "content": "hi"}, &a)
		require.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("update_content", func(t *testing.T) {
		rt := route{http.MethodPut, "/forum/comments/{commentId}", func(h *Handlers) http.HandlerFunc { return h.UpdateComment }}

		content := "edited"
		svc := newMock(t)
		svc.EXPECT().UpdateComment(gomock.Any(), a, commentID, &content).
			Return(&models.Comment{ID: commentID, Content: content, EditedAt: &createdAt}, nil)

		rr := call(t, svc, rt, "/forum/comments/"+commentID, map[string]string{"content": content}, &a)
		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, decode[commentResponse](t, rr).EditedAt)
	})

	t.Run("like", func(t *testing.T) {
		rt := route{http.MethodPost, "/forum/comments/{commentId}/like", func(h *Handlers) http.HandlerFunc { return h.LikeComment }}

		svc := newMock(t)
		svc.EXPECT().LikeComment(gomock.Any(), commentID).Return(&models.Comment{ID: commentID, Likes: 3}, nil)

		rr := call(t, svc, rt, "/forum/comments/"+commentID+"/like", nil, &a)
		require.Equal(t, http.StatusOK, rr.Code)
		require.EqualValues(t, 3, decode[commentResponse](t, rr).Likes)
	})

	t.Run("list", func(t *testing.T) {
		rt := route{http.MethodGet, "/forum/topics/{topicId}/comments", func(h *Handlers) http.HandlerFunc { return h.ListComments }}

		svc := newMock(t)
		svc.EXPECT().ListComments(gomock.Any(), service.ListCommentsInput{TopicID: topicID}).
			Return(&models.Page[models.Comment]{Items: []models.Comment{{ID: commentID}}, Total: 1, Page: 1, PageSize: 20}, nil)

		rr := call(t, svc, rt, "/forum/topics/"+topicID+"/comments", nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, decode[pageResponse[commentResponse]](t, rr).Items, 1)
	})
}

func TestMemberships(t *testing.T) {
	a := user()

	svc := newMock(t)
	svc.EXPECT().Subscribe(gomock.Any(), a, topicID).Return(nil)
	svc.EXPECT().Unbookmark(gomock.Any(), a, topicID).Return(fmt.Errorf("op: %w", service.ErrNotFound))

	rr := call(t, svc, route{http.MethodPost, "/forum/topics/{topicId}/subscribe",
		func(h *Handlers) http.HandlerFunc { return h.Subscribe }}, "/forum/topics/"+topicID+"/subscribe", nil, &a)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = call(t, svc, route{http.MethodPost, "/forum/topics/{topicId}/unbookmark",
		func(h *Handlers) http.HandlerFunc { return h.Unbookmark }}, "/forum/topics/"+topicID+"/unbookmark", nil, &a)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCategories(t *testing.T) {
	staff := access.Actor{ID: uuid.New(), Role: models.RoleModerator}

	t.Run("list_empty_is_array", func(t *testing.T) {
		svc := newMock(t)
		svc.EXPECT().ListCategories(gomock.Any()).Return(nil, nil)

		rr := call(t, svc, route{http.MethodGet, "/forum/categories",
			func(h *Handlers) http.HandlerFunc { return h.ListCategories }}, "/forum/categories", nil, nil)

		require.Equal(t, http.StatusOK, rr.Code)
		require.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("create", func(t *testing.T) {
		order := 2
		svc := newMock(t)
		svc.EXPECT().CreateCategory(gomock.Any(), staff, service.CreateCategoryInput{Name: "News", Order: &order}).
			Return(&models.Category{ID: "c1", Name: "News", Order: 2}, nil)

		rr := call(t, svc, route{http.MethodPost, "/forum/categories",
			func(h *Handlers) http.HandlerFunc { return h.CreateCategory }}, "/forum/categories",
			map[string]any{"name": "News", "order": 2}, &staff)

		require.Equal(t, http.StatusCreated, rr.Code)
		require.Equal(t, "News", decode[categoryResponse](t, rr).Name)
	})

	t.Run("delete", func(t *testing.T) {
		svc := newMock(t)
		svc.EXPECT().DeleteCategory(gomock.Any(), staff, "c1").Return(nil)

		rr := call(t, svc, route{http.MethodDelete, "/forum/categories/{categoryId}",
			func(h *Handlers) http.HandlerFunc { return h.DeleteCategory }}, "/forum/categories/c1", nil, &staff)

		require.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func TestUsers(t *testing.T) {
	a := user()

	t.Run("me", func(t *testing.T) {
		svc := newMock(t)
		svc.EXPECT().Me(gomock.Any(), a).Return(&models.User{
			ID: a.ID, Username: "alice", PasswordHash: "$2a$secret", SubscribedTopicIDs: []string{topicID},
		}, nil)

		rr := call(t, svc, route{http.MethodGet, "/users/me",
			func(h *Handlers) http.HandlerFunc { return h.GetMe }}, "/users/me", nil, &a)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotContains(t, rr.Body.String(), "secret")
		require.Equal(t, []string{topicID}, decode[userResponse](t, rr).SubscribedTopicIDs)
	})

	t.Run("avatar_upload_url", func(t *testing.T) {
		svc := newMock(t)
		svc.EXPECT().AvatarUploadURL(gomock.Any(), a, "image/png", int64(1024)).Return(&storage.UploadInfo{
			UploadURL: "http://minio/put", AvatarKey: "avatars/k.png", Expires: 15 * time.Minute,
		}, nil)

		rr := call(t, svc, route{http.MethodPost, "/users/me/avatar/upload-url",
			func(h *Handlers) http.HandlerFunc { return h.AvatarUploadURL }}, "/users/me/avatar/upload-url",
			map[string]any{"contentType": "image/png", "contentLength": 1024}, &a)

		require.Equal(t, http.StatusOK, rr.Code)
		got := decode[avatarUploadResponse](t, rr)
		require.Equal(t, "avatars/k.png", got.AvatarKey)
		require.EqualValues(t, 900, got.ExpiresSeconds)
	})

	t.Run("avatar_zero_length_400", func(t *testing.T) {
		rr := call(t, newMock(t), route{http.MethodPost, "/users/me/avatar/upload-url",
			func(h *Handlers) http.HandlerFunc { return h.AvatarUploadURL }}, "/users/me/avatar/upload-url",
			map[string]any{"contentType": "image/png", "contentLength": 0}, &a)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAdmin(t *testing.T) {
	adm := access.Actor{ID: uuid.New(), Role: models.RoleAdmin}
	target := uuid.New()

	t.Run("list_users_limit", func(t *testing.T) {
		svc := newMock(t)
		svc.EXPECT().ListUsers(gomock.Any(), adm, "ali", 5).Return([]models.UserSummary{{ID: target, Username: "alice"}}, nil)

		rr := call(t, svc, route{http.MethodGet, "/admin/users",
			func(h *Handlers) http.HandlerFunc { return h.ListUsers }}, "/admin/users?q=ali&limit=5", nil, &adm)

		require.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, decode[[]userSummaryResponse](t, rr), 1)
	})

	t.Run("set_role", func(t *testing.T) {
		svc := newMock(t)
		svc.EXPECT().SetUserRole(gomock.Any(), adm, target, models.RoleModerator).
			Return(&models.UserSummary{ID: target, Role: models.RoleModerator}, nil)

		rr := call(t, svc, route{http.MethodPut, "/admin/users/{userId}/role",
			func(h *Handlers) http.HandlerFunc { return h.SetUserRole }}, "/admin/users/"+target.String()+"/role",
			map[string]string{"role": "moderator"}, &adm)

		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, "moderator", decode[userSummaryResponse](t, rr).Role)
	})

	t.Run("bad_user_id_400", func(t *testing.T) {
		rr := call(t, newMock(t), route{http.MethodPut, "/admin/users/{userId}/role",
			func(h *Handlers) http.HandlerFunc { return h.SetUserRole }}, "/admin/users/not-a-uuid/role",
			map[string]string{"role": "moderator"}, &adm)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
