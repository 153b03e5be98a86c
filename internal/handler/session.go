package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/socialhub/internal/apperror"
	"github.com/sakif/socialhub/internal/auth"
	"github.com/sakif/socialhub/internal/model"
	"github.com/sakif/socialhub/internal/service"
)

// SessionHandler covers registration, login and logout, and the logged-in
// user's own profile.
//
// A successful register or login issues a JWT in the HttpOnly session
// cookie; see auth.RequireAuth for how later requests are authenticated.
type SessionHandler struct {
	app    *service.App
	tokens *auth.TokenService
	view   presenter
	logger *slog.Logger
}

func NewSessionHandler(app *service.App, tokens *auth.TokenService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		app:    app,
		tokens: tokens,
		view:   presenter{app: app, now: time.Now},
		logger: logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
}

// HandleRegister creates an account and logs it in.
//
// HTTP: POST /api/register
// REQUEST BODY: {"name":"John","username":"johndoe","email":"john@x.com","password":"pw1"}
// 201 with the new profile; 409 if the email or username is taken.
func (h *SessionHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	u, err := h.app.Register(r.Context(), req.Name, req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	h.startSession(w, http.StatusCreated, u)
}

// HandleLogin checks credentials and starts a session.
//
// HTTP: POST /api/login
// REQUEST BODY: {"email":"john@x.com","password":"pw1"}
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	u, err := h.app.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	h.startSession(w, http.StatusOK, u)
}

func (h *SessionHandler) startSession(w http.ResponseWriter, status int, u model.User) {
	token, err := h.tokens.Generate(u.ID)
	if err != nil {
		h.logger.Error("token generation failed", slog.String("userID", u.ID), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	auth.SetSessionCookie(w, token, h.tokens.TTL())
	writeJSON(w, status, h.view.me(u))
}

// HandleLogout clears the session cookie and the stored current user.
//
// HTTP: POST /api/logout
//
// The JWT itself stays valid until it expires; without the cookie the
// browser just can't send it any more.
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	if err := h.app.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the logged-in user's profile with stats.
//
// HTTP: GET /api/me
func (h *SessionHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	u, found := h.app.User(userID)
	if !found {
		// Valid token for an account that no longer exists, e.g. after the
		// store was reset.
		writeError(w, apperror.Unauthorized("session refers to an unknown user"))
		return
	}
	writeJSON(w, http.StatusOK, h.view.me(u))
}

// HandleUpdateMe edits the logged-in user's profile.
//
// HTTP: PUT /api/me
// REQUEST BODY: {"name":"...","username":"...","bio":"...","location":"..."}
func (h *SessionHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	u, err := h.app.UpdateProfile(r.Context(), userID, req.Name, req.Username, req.Bio, req.Location)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view.me(u))
}

// requireUserID reads the user ID RequireAuth put in the context. On a
// protected route it is always there; if not, the request gets 401.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return "", false
	}
	return userID, true
}
