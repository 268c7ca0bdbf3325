package handler

import (
	"math"
	"net/http"
	"strings"

	"evote/internal/container"
	"evote/internal/domain"
	"evote/internal/middleware"
	"evote/internal/service"
	"evote/pkg/errors"
	"evote/pkg/logger"
)

// AuthHandler serves the sign-up, sign-in and OTP pages
type AuthHandler struct {
	auth     service.AuthService
	otp      service.OTPService
	renderer *Renderer
	logger   *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(c *container.Container, renderer *Renderer) *AuthHandler {
	return &AuthHandler{
		auth:     c.GetAuthService(),
		otp:      c.GetOTPService(),
		renderer: renderer,
		logger:   c.GetLogger().Named("auth_handler"),
	}
}

type registerView struct {
	Form   domain.AdminRegistration
	Errors map[string]interface{}
}

type adminLoginView struct {
	Email string
}

type voterLoginView struct {
	Channel domain.Channel
	Contact string
}

type verifyView struct {
	Channel   domain.Channel
	Contact   string
	Remaining int
	// one entry per input box; a failed attempt is echoed back
	Digits []string
}

// Index handles GET /
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin-login", http.StatusFound)
}

// RegisterForm handles GET /admin-register
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "admin_register.html", "Admin Registration", registerView{})
}

// Register handles POST /admin-register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	reg := domain.AdminRegistration{
		Name:            r.PostFormValue("name"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	err := h.auth.Register(r.Context(), reg)
	switch {
	case err == nil:
		toastSuccess(r, "Registration successful", "Please login with your credentials")
		redirect(w, r, h.logger, "/admin-login")
	case abandoned(err):
		return
	case errors.IsType(err, errors.ErrorTypeValidation):
		view := registerView{
			Form:   domain.AdminRegistration{Name: reg.Name, Email: reg.Email},
			Errors: errors.AsAppError(err).Details,
		}
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, "admin_register.html", "Admin Registration", view)
	default:
		h.logger.WithError(err).Error("Registration failed")
		toastError(r, errors.NewInternalError("Please try again later", err).WithTitle("Registration failed"))
		h.renderer.Render(w, r, http.StatusInternalServerError, "admin_register.html", "Admin Registration", registerView{Form: domain.AdminRegistration{Name: reg.Name, Email: reg.Email}})
	}
}

// LoginForm handles GET /admin-login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "admin_login.html", "Admin Login", adminLoginView{})
}

// Login handles POST /admin-login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	creds := domain.AdminCredentials{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	view := adminLoginView{Email: creds.Email}

	identity, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		if abandoned(err) {
			return
		}
		status := http.StatusUnprocessableEntity
		if !errors.IsType(err, errors.ErrorTypeValidation) {
			status = http.StatusUnauthorized
			err = errors.NewAuthenticationError("Invalid email or password").WithTitle("Login failed")
		}
		toastError(r, err)
		h.renderer.Render(w, r, status, "admin_login.html", "Admin Login", view)
		return
	}

	if err := stateFrom(r).Login(identity); err != nil {
		h.logger.WithError(err).Error("Failed to start admin session")
		toastError(r, errors.NewAuthenticationError("Invalid email or password").WithTitle("Login failed"))
		h.renderer.Render(w, r, http.StatusInternalServerError, "admin_login.html", "Admin Login", view)
		return
	}

	toastSuccess(r, "Login successful", "Welcome to the admin dashboard")
	redirect(w, r, h.logger, middleware.DashboardPathFor(domain.RoleAdmin))
}

// VoterLoginForm handles GET /voter-login
func (h *AuthHandler) VoterLoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "voter_login.html", "Voter Login", voterLoginView{Channel: domain.ChannelEmail})
}

// RequestOTP handles POST /voter-login
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	channel := domain.Channel(r.PostFormValue("channel"))
	if channel == "" {
		channel = domain.ChannelEmail
	}
	contact := strings.TrimSpace(r.PostFormValue("contact"))
	view := voterLoginView{Channel: channel, Contact: contact}

	_, err := h.otp.Request(r.Context(), stateFrom(r).SessionID(), contact, channel)
	if err != nil {
		if abandoned(err) {
			return
		}
		status := http.StatusUnprocessableEntity
		if !errors.IsType(err, errors.ErrorTypeValidation) {
			h.logger.WithError(err).Error("Failed to issue OTP")
			status = http.StatusInternalServerError
		}
		toastError(r, err)
		h.renderer.Render(w, r, status, "voter_login.html", "Voter Login", view)
		return
	}

	toastSuccess(r, "OTP Sent", "A 6-digit OTP has been sent to your "+string(channel))
	redirect(w, r, h.logger, "/verify-otp")
}

// VerifyForm handles GET /verify-otp. Without a pending code the voter is
// sent back to request one.
func (h *AuthHandler) VerifyForm(w http.ResponseWriter, r *http.Request) {
	h.renderVerify(w, r, http.StatusOK, nil)
}

func (h *AuthHandler) renderVerify(w http.ResponseWriter, r *http.Request, status int, entered []string) {
	ch, err := h.otp.Pending(r.Context(), stateFrom(r).SessionID())
	if err != nil {
		if !errors.IsType(err, errors.ErrorTypeNotFound) {
			h.logger.WithError(err).Error("Failed to load pending OTP")
		}
		redirect(w, r, h.logger, "/voter-login")
		return
	}

	view := verifyView{
		Channel:   ch.Channel,
		Contact:   ch.Contact,
		Remaining: int(math.Ceil(h.otp.Remaining(ch).Seconds())),
		Digits:    make([]string, domain.OTPLength),
	}
	for i, d := range entered {
		if i < len(view.Digits) && len(d) == 1 && d[0] >= '0' && d[0] <= '9' {
			view.Digits[i] = d
		}
	}
	h.renderer.Render(w, r, status, "verify_otp.html", "Verify OTP", view)
}

// Verify handles POST /verify-otp
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	st := stateFrom(r)

	identity, err := h.otp.Verify(r.Context(), st.SessionID(), r.PostForm["digit"])
	if err != nil {
		switch {
		case abandoned(err):
			return
		case errors.IsType(err, errors.ErrorTypeNotFound):
			redirect(w, r, h.logger, "/voter-login")
			return
		case errors.IsType(err, errors.ErrorTypeInternal):
			h.logger.WithError(err).Error("OTP verification failed")
			toastError(r, errors.NewInternalError("An error occurred during verification", err))
			h.renderVerify(w, r, http.StatusInternalServerError, r.PostForm["digit"])
			return
		}
		toastError(r, err)
		h.renderVerify(w, r, http.StatusUnprocessableEntity, r.PostForm["digit"])
		return
	}

	if err := st.Login(identity); err != nil {
		h.logger.WithError(err).Error("Failed to start voter session")
		toastError(r, errors.NewInternalError("An error occurred during verification", err))
		redirect(w, r, h.logger, "/voter-login")
		return
	}

	toastSuccess(r, "Verification successful", "You are now logged in")
	redirect(w, r, h.logger, middleware.DashboardPathFor(domain.RoleVoter))
}

// Resend handles POST /verify-otp/resend
func (h *AuthHandler) Resend(w http.ResponseWriter, r *http.Request) {
	_, err := h.otp.Resend(r.Context(), stateFrom(r).SessionID())
	switch {
	case err == nil:
		toastSuccess(r, "OTP Resent", "A new OTP has been sent")
	case errors.IsType(err, errors.ErrorTypeNotFound):
		redirect(w, r, h.logger, "/voter-login")
		return
	default:
		toastError(r, err)
	}
	redirect(w, r, h.logger, "/verify-otp")
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r)
	target := "/admin-login"
	if user := st.CurrentUser(); user != nil {
		target = middleware.LoginPathFor(user.Role)
	}
	st.Logout()
	redirect(w, r, h.logger, target)
}
