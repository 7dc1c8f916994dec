package devserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	client "github.com/rm-Shayan/finetech-frontened/client"
)

type authPayload struct {
	User        *client.Profile `json:"user,omitempty"`
	AccessToken string          `json:"accessToken,omitempty"`
}

func (s *Server) login(role client.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req client.LoginRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		prof, ver, err := s.store.Authenticate(req.Email, req.Password, role)
		if err != nil {
			writeError(w, err)
			return
		}
		token, err := s.tokens.issue(w, prof, ver)
		if err != nil {
			writeError(w, err)
			return
		}
		log.Debug().Str("role", role.String()).Str("user_id", prof.ID).Msg("login")
		writeOK(w, http.StatusOK, "Login successful", authPayload{User: &prof, AccessToken: token})
	}
}

// refresh trades the refresh cookie for a new token pair. The payload
// carries the access token only; clients fetch the profile separately.
func (s *Server) refresh(role client.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie(refreshCookie)
		if err != nil || ck.Value == "" {
			writeFail(w, http.StatusUnauthorized, "Unauthorized: refresh token missing")
			return
		}
		c, err := s.tokens.parse(ck.Value, tokenRefresh)
		if err != nil {
			clearTokenCookies(w)
			if err == errTokenExpired {
				writeFail(w, http.StatusUnauthorized, "Refresh token expired")
				return
			}
			writeFail(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		prof, ver, ok := s.store.Account(c.Subject)
		if !ok || ver != c.Version {
			clearTokenCookies(w)
			writeFail(w, http.StatusUnauthorized, "Unauthorized: session revoked")
			return
		}
		if prof.Role != role {
			writeFail(w, http.StatusForbidden, "Forbidden: "+role.String()+" access only")
			return
		}
		token, err := s.tokens.issue(w, prof, ver)
		if err != nil {
			writeError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "Token refreshed", authPayload{AccessToken: token})
	}
}

// logout revokes the caller's tokens when they can be identified and
// always clears the cookies.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	var subject string
	if raw := accessToken(r); raw != "" {
		if c, err := s.tokens.parse(raw, tokenAccess); err == nil {
			subject = c.Subject
		}
	}
	if ck, err := r.Cookie(refreshCookie); subject == "" && err == nil {
		if c, err := s.tokens.parse(ck.Value, tokenRefresh); err == nil {
			subject = c.Subject
		}
	}
	if subject != "" {
		s.store.RevokeTokens(subject)
	}
	clearTokenCookies(w)
	writeOK(w, http.StatusOK, "Logged out", nil)
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req client.SignupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeFail(w, http.StatusBadRequest, client.UserMessage(err))
		return
	}
	prof, err := s.store.CreateAccount(req.Name, req.Email, req.Password, client.RoleCustomer, req.BankID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, "Signup successful", authPayload{User: &prof})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	prof := principalFrom(r.Context())
	writeOK(w, http.StatusOK, "Profile fetched", authPayload{User: &prof})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	prof := principalFrom(r.Context())
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeFail(w, http.StatusBadRequest, "malformed multipart body")
		return
	}
	var avatar *client.Asset
	if fhs := r.MultipartForm.File["avatar"]; len(fhs) > 0 {
		a := uploadAsset("avatars", fhs[0].Filename)
		avatar = &a
	}
	updated, err := s.store.UpdateAccount(prof.ID, r.FormValue("name"), r.FormValue("email"), avatar)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Profile updated", authPayload{User: &updated})
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	prof := principalFrom(r.Context())
	if err := s.store.DeleteAccount(prof.ID); err != nil {
		writeError(w, err)
		return
	}
	clearTokenCookies(w)
	writeOK(w, http.StatusOK, "Account deleted", nil)
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req client.ForgotPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if token, ok := s.store.IssueResetToken(req.Email); ok {
		s.onReset(strings.ToLower(strings.TrimSpace(req.Email)), token)
	}
	writeOK(w, http.StatusOK, "If the account exists, a reset link has been sent", nil)
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req client.ResetPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.NewPassword) < client.MinPasswordLength {
		writeFail(w, http.StatusBadRequest, fmt.Sprintf("password must be at least %d characters", client.MinPasswordLength))
		return
	}
	if err := s.store.ResetPassword(req.Token, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Password reset successful", nil)
}

// updatePassword changes the password and re-issues the session so the
// caller stays signed in while older tokens stop working.
func (s *Server) updatePassword(w http.ResponseWriter, r *http.Request) {
	prof := principalFrom(r.Context())
	var req client.UpdatePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.NewPassword) < client.MinPasswordLength {
		writeFail(w, http.StatusBadRequest, fmt.Sprintf("password must be at least %d characters", client.MinPasswordLength))
		return
	}
	if err := s.store.ChangePassword(prof.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, ErrCredentials) {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, err)
		return
	}
	_, ver, _ := s.store.Account(prof.ID)
	if _, err := s.tokens.issue(w, prof, ver); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Password updated", nil)
}

// dashboard reports complaint counters for the caller's scope. The
// regulator also sees directory totals.
func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	prof := principalFrom(r.Context())
	counts := s.store.StatusCounts(scopeOf(prof))
	out := map[string]interface{}{}
	total := 0
	for _, st := range client.Statuses() {
		out[string(st)] = counts[st]
		total += counts[st]
	}
	out["totalComplaints"] = total
	if prof.Role == client.RoleSBPAdmin {
		out["totalBanks"] = len(s.store.Banks())
		out["totalBankOfficers"] = len(s.store.Users(UserFilter{Role: client.RoleBankOfficer}))
		out["totalCustomers"] = len(s.store.Users(UserFilter{Role: client.RoleCustomer}))
	}
	writeOK(w, http.StatusOK, "Dashboard fetched", out)
}

// uploadAsset names a stored upload. File contents are not kept.
func uploadAsset(folder, filename string) client.Asset {
	id := uuid.NewString()
	return client.Asset{URL: "/uploads/" + folder + "/" + id + "/" + filename, PublicID: folder + "/" + id}
}
