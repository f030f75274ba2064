package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/restaurant/internal/constants"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/token"
	"github.com/RoyceAzure/lab/restaurant/internal/util"
	"github.com/stretchr/testify/require"
)

const testSymmetricKey = "0123456789abcdef0123456789abcdef"

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func requestWithSession(t *testing.T, maker token.Maker, isAdmin bool) *http.Request {
	t.Helper()
	tk, _, err := maker.CreateToken(1, "alice", isAdmin, time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/admin/items", nil)
	req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: tk})
	return req
}

func TestAuthPayloadMiddleware(t *testing.T) {
	maker, err := token.NewPasetoMaker(testSymmetricKey)
	require.NoError(t, err)

	var got *token.Payload
	h := AuthPayloadMiddleware(maker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = util.GetTokenPayloadFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), requestWithSession(t, maker, false))
	require.NotNil(t, got)
	require.Equal(t, "alice", got.Username)

	got = nil
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "tampered"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Nil(t, got)
}

func TestAuthMiddlewareRedirectsAnonymous(t *testing.T) {
	rec := httptest.NewRecorder()
	AuthMiddleware(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestAdminMiddleware(t *testing.T) {
	maker, err := token.NewPasetoMaker(testSymmetricKey)
	require.NoError(t, err)
	h := AuthPayloadMiddleware(maker)(AdminMiddleware(http.HandlerFunc(okHandler)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithSession(t, maker, true))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithSession(t, maker, false))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	var flash *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == constants.FlashCookieName {
			flash = c
		}
	}
	require.NotNil(t, flash)
}

func TestRequestIdMiddleware(t *testing.T) {
	var id string
	h := RequestIdMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id = util.GetRequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEqual(t, "unknown", id)
	require.Equal(t, id, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "abc", id)
}

func TestRecoverMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	RecoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
