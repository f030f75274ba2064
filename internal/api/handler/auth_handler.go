package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/restaurant/internal/constants"
	"github.com/RoyceAzure/lab/restaurant/internal/service"
	"github.com/RoyceAzure/lab/restaurant/internal/view"
)

type AuthHandler struct {
	pageRenderer
	authService  service.IAuthService
	secureCookie bool
}

func NewAuthHandler(renderer *view.Renderer, authService service.IAuthService, secureCookie bool) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	return &AuthHandler{
		pageRenderer: pageRenderer{renderer: renderer},
		authService:  authService,
		secureCookie: secureCookie,
	}
}

func (a *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "login.html", "Login", nil)
}

func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		a.handleFormError(w, r, err, "/login")
		return
	}

	accessToken, payload, err := a.authService.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		a.handleFormError(w, r, err, "/login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    accessToken,
		Path:     "/",
		Expires:  payload.ExpiredAt,
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "register.html", "Register", nil)
}

func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		a.handleFormError(w, r, err, "/register")
		return
	}

	_, err := a.authService.Register(r.Context(), service.RegisterInput{
		Username: r.PostForm.Get("username"),
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
		IsAdmin:  r.PostForm.Has("is_admin"),
	})
	if err != nil {
		a.handleFormError(w, r, err, "/register")
		return
	}

	a.flashRedirect(w, r, constants.FlashSuccess, "Registration successful, please log in.", "/login")
}
