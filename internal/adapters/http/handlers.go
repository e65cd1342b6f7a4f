package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus"

	"studio/internal/adapters/http/metrics"
	"studio/internal/adapters/http/middleware"
	"studio/internal/application/orchestrators"
	"studio/internal/application/projections"
	"studio/internal/domain/identity"
)

// registerRoutes attaches all application routes to the mux.
func registerRoutes(mux *http.ServeMux, gatherer prometheus.Gatherer) {
	mux.HandleFunc("/signup", handleSignup)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/appointments", handleAppointments)
	mux.HandleFunc("/trainers", handleTrainers)
	mux.HandleFunc("/payments", handlePayments)
	mux.Handle("/dashboard", middleware.RequireSession(http.HandlerFunc(handleDashboard)))
	mux.HandleFunc("/csrf-token", handleCSRFToken)
	mux.HandleFunc("/healthz", handleHealthz)
	mux.Handle("/metrics", metrics.Handler(gatherer))
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// isJSONRequest reports whether the client posted a JSON body.
func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// badRequest writes a 400 with a JSON error body.
func badRequest(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// handleSignup handles POST /signup. Accepts a form submission or a
// JSON body; 303 to the login page on success, 400 with a JSON error
// otherwise.
func handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input orchestrators.SignupInput
	if isJSONRequest(r) {
		var body struct {
			Email    string `json:"email"`
			Username string `json:"username"`
			Name     string `json:"name"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := strictDecode(r, &body); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		input = orchestrators.SignupInput(body)
	} else {
		if err := r.ParseForm(); err != nil {
			badRequest(w, "invalid form submission")
			return
		}
		input = orchestrators.SignupInput{
			Email:    r.FormValue("email"),
			Username: r.FormValue("username"),
			Name:     r.FormValue("name"),
			Password: r.FormValue("password"),
			Role:     r.FormValue("role"),
		}
	}
	if input.Role == "" {
		input.Role = identity.RoleMember
	}

	if _, err := orchestrators.ExecuteSignup(r.Context(), input, orchestrators.SignupDeps{
		IdentityStore: stores.IdentityStore,
	}); err != nil {
		if errors.Is(err, orchestrators.ErrStorageFault) {
			internalError(w, err)
			return
		}
		badRequest(w, err.Error())
		return
	}

	collector.RecordSignup()
	http.Redirect(w, r, "/login.html", http.StatusSeeOther)
}

// handleLogin handles POST /login. Returns the role and redirect target
// as JSON; the client navigates. Failures are a generic 401.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input orchestrators.LoginInput
	if isJSONRequest(r) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := strictDecode(r, &body); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		input = orchestrators.LoginInput(body)
	} else {
		if err := r.ParseForm(); err != nil {
			badRequest(w, "invalid form submission")
			return
		}
		input = orchestrators.LoginInput{
			Username: r.FormValue("username"),
			Password: r.FormValue("password"),
		}
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		IdentityStore: stores.IdentityStore,
	})
	if err != nil {
		if errors.Is(err, identity.ErrMalformedDigest) || errors.Is(err, orchestrators.ErrStorageFault) {
			internalError(w, err)
			return
		}
		collector.RecordLogin("failure")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
		return
	}

	token, err := sessions.Create(result.Snapshot)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token, sessions.MaxAge())

	collector.RecordLogin("success")
	resp := map[string]string{
		"role":           result.Snapshot.Role,
		"redirectTarget": result.RedirectTarget,
	}
	if result.TrainerID != "" {
		resp["trainerId"] = result.TrainerID
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleLogout handles POST /logout. Removing a session that is already
// gone is reported in the body, not as an HTTP error.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := middleware.GetSessionFromContext(r.Context()); !ok {
		http.Redirect(w, r, "/login.html", http.StatusSeeOther)
		return
	}

	deleted := sessions.Delete(middleware.SessionToken(r))
	middleware.ClearSessionCookie(w)

	msg := "logged out"
	if !deleted {
		msg = "session already expired"
	}
	slog.Info("auth_event", "event", "logout", "deleted", deleted)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": deleted, "message": msg})
}

// handleAppointments handles POST (book, public) and GET (list,
// session required) on /appointments.
func handleAppointments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "POST":
		handleBookAppointment(w, r)
	case "GET":
		handleListAppointments(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleBookAppointment(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.BookAppointmentInput
	if isJSONRequest(r) {
		var body struct {
			Name      string `json:"name"`
			Email     string `json:"email"`
			TrainerID string `json:"trainerId"`
			Age       int    `json:"age"`
			Gender    string `json:"gender"`
			Date      string `json:"date"`
			Time      string `json:"time"`
			Kind      string `json:"kind"`
			Phone     string `json:"phone"`
		}
		if err := strictDecode(r, &body); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		input = orchestrators.BookAppointmentInput{
			SubjectName:  body.Name,
			SubjectEmail: body.Email,
			TrainerID:    body.TrainerID,
			Age:          body.Age,
			Gender:       body.Gender,
			Date:         body.Date,
			Time:         body.Time,
			Kind:         body.Kind,
			Phone:        body.Phone,
		}
	} else {
		if err := r.ParseForm(); err != nil {
			badRequest(w, "invalid form submission")
			return
		}
		age := 0
		if v := r.FormValue("age"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				badRequest(w, "age must be a number")
				return
			}
			age = parsed
		}
		input = orchestrators.BookAppointmentInput{
			SubjectName:  r.FormValue("name"),
			SubjectEmail: r.FormValue("email"),
			TrainerID:    r.FormValue("trainerId"),
			Age:          age,
			Gender:       r.FormValue("gender"),
			Date:         r.FormValue("date"),
			Time:         r.FormValue("time"),
			Kind:         r.FormValue("kind"),
			Phone:        r.FormValue("phone"),
		}
	}

	result := orchestrators.ExecuteBookAppointment(r.Context(), input, orchestrators.BookAppointmentDeps{
		IdentityStore:    stores.IdentityStore,
		AppointmentStore: stores.AppointmentStore,
		EmailSender:      emailSender,
		EmailFrom:        emailFromAddress,
		EmailReplyTo:     emailReplyTo,
	})
	if result.State == orchestrators.BookingRejected {
		if errors.Is(result.Err, orchestrators.ErrStorageFault) {
			collector.RecordBooking("failed")
			internalError(w, result.Err)
			return
		}
		collector.RecordBooking("rejected")
		badRequest(w, result.Err.Error())
		return
	}

	collector.RecordBooking("persisted")
	http.Redirect(w, r, "/booking-success.html", http.StatusSeeOther)
}

func handleListAppointments(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); !ok {
		http.Redirect(w, r, "/login.html", http.StatusSeeOther)
		return
	}

	trainerID := r.URL.Query().Get("trainerId")
	if trainerID == "" {
		badRequest(w, "trainerId query parameter is required")
		return
	}

	entries, err := projections.QueryTrainerAppointments(r.Context(), trainerID, projections.TrainerAppointmentsDeps{
		AppointmentStore: stores.AppointmentStore,
		IdentityStore:    stores.IdentityStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// handleTrainers handles GET /trainers: the trainer list for the
// booking form's selector. Public, like the booking form itself.
func handleTrainers(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	entries, err := projections.QueryTrainers(r.Context(), projections.TrainerListDeps{
		IdentityStore: stores.IdentityStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// handlePayments handles POST (record) and GET (list) on /payments.
// Both require a session.
func handlePayments(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); !ok {
		http.Redirect(w, r, "/login.html", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case "POST":
		var input orchestrators.RecordPaymentInput
		if isJSONRequest(r) {
			var body struct {
				MemberEmail string `json:"memberEmail"`
				AmountCents int    `json:"amountCents"`
				Method      string `json:"method"`
				PlanName    string `json:"plan"`
			}
			if err := strictDecode(r, &body); err != nil {
				badRequest(w, "invalid JSON body")
				return
			}
			input = orchestrators.RecordPaymentInput(body)
		} else {
			if err := r.ParseForm(); err != nil {
				badRequest(w, "invalid form submission")
				return
			}
			amount, err := strconv.Atoi(r.FormValue("amountCents"))
			if err != nil {
				badRequest(w, "amountCents must be a number")
				return
			}
			input = orchestrators.RecordPaymentInput{
				MemberEmail: r.FormValue("memberEmail"),
				AmountCents: amount,
				Method:      r.FormValue("method"),
				PlanName:    r.FormValue("plan"),
			}
		}

		p, err := orchestrators.ExecuteRecordPayment(r.Context(), input, orchestrators.RecordPaymentDeps{
			PaymentStore: stores.PaymentStore,
		})
		if err != nil {
			if errors.Is(err, orchestrators.ErrStorageFault) {
				internalError(w, err)
				return
			}
			badRequest(w, err.Error())
			return
		}
		collector.RecordPayment()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": p.ID})

	case "GET":
		entries, err := projections.QueryPayments(r.Context(), projections.PaymentListInput{
			MemberEmail: r.URL.Query().Get("memberEmail"),
			Method:      r.URL.Query().Get("method"),
		}, projections.PaymentListDeps{PaymentStore: stores.PaymentStore})
		if err != nil {
			internalError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleDashboard handles GET /dashboard: redirects any logged-in
// identity to its role's page. The gate is session-presence only.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login.html", http.StatusSeeOther)
		return
	}

	target := "/dashboard-member.html"
	switch session.Role {
	case identity.RoleTrainer:
		target = "/dashboard-trainer.html"
	case identity.RoleAdmin:
		target = "/dashboard-admin.html"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleCSRFToken handles GET /csrf-token: static pages fetch the token
// here and attach it to native form posts.
func handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": csrf.Token(r)})
}

// handleHealthz handles GET /healthz.
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
