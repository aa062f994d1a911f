package api

import (
	"net/http"

	"github.com/andrebq/taskbox/auth"
	"github.com/julienschmidt/httprouter"
)

type (
	registerRequest struct {
		Name                 string `json:"name" validate:"required,max=255"`
		Email                string `json:"email" validate:"required,email,max=255"`
		Password             string `json:"password" validate:"required,min=6,max=72,maxbytes=72"`
		PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
	}

	loginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	registerResponse struct {
		Message string   `json:"message"`
		User    userView `json:"user"`
	}

	loginResponse struct {
		AccessToken string   `json:"access_token"`
		TokenType   string   `json:"token_type"`
		User        userView `json:"user"`
	}

	currentUserResponse struct {
		User userView `json:"user"`
	}
)

// ValidateRegistration applies the rules of the register endpoint to an
// account created without going through http.
func ValidateRegistration(name, email, passwd string) error {
	s := server{validate: newValidator()}
	return s.check(&registerRequest{
		Name:                 name,
		Email:                email,
		Password:             passwd,
		PasswordConfirmation: passwd,
	})
}

func (s *server) register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req registerRequest
	if err := s.decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	passwd := auth.PlainText(req.Password)
	defer passwd.Zero()
	user, err := s.accounts.Register(r.Context(), req.Name, req.Email, passwd)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{
		Message: "User registered successfully.",
		User:    viewUser(user),
	})
}

func (s *server) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := s.decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	passwd := auth.PlainText(req.Password)
	defer passwd.Zero()
	token, user, err := s.accounts.Login(r.Context(), req.Email, passwd)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		User:        viewUser(user),
	})
}

func (s *server) logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params, id auth.Identity) {
	if err := s.accounts.Logout(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message{Message: "User logged out successfully."})
}

func (s *server) currentUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params, id auth.Identity) {
	user, err := s.accounts.Current(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, currentUserResponse{User: viewUser(user)})
}
