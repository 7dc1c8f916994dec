package devserver

import (
	"net/http"

	client "github.com/rm-Shayan/finetech-frontened/client"
)

func (s *Server) listBanks(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, "Banks fetched", s.store.Banks())
}

// bankCustomers lists the customers of the officer's own bank.
func (s *Server) bankCustomers(w http.ResponseWriter, r *http.Request) {
	prof := principalFrom(r.Context())
	f := UserFilter{Role: client.RoleCustomer, Search: r.URL.Query().Get("search")}
	if prof.BankID != nil {
		f.BankID = *prof.BankID
	}
	s.writeUsers(w, r, f)
}

func (s *Server) bankOfficers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.writeUsers(w, r, UserFilter{Role: client.RoleBankOfficer, BankCode: q.Get("bankCode"), Search: q.Get("search")})
}

func (s *Server) allUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := UserFilter{BankCode: q.Get("bankCode"), Search: q.Get("search")}
	if role := q.Get("role"); role != "" {
		parsed, err := client.ParseRole(role)
		if err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		f.Role = parsed
	}
	s.writeUsers(w, r, f)
}

func (s *Server) writeUsers(w http.ResponseWriter, r *http.Request, f UserFilter) {
	page, limit := pageParams(r)
	all := s.store.Users(f)
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	writeOK(w, http.StatusOK, "Users fetched", client.UserPage{
		Page:  page,
		Limit: limit,
		Total: len(all),
		Users: append([]client.Profile{}, all[start:end]...),
	})
}

func (s *Server) registerBankOfficer(w http.ResponseWriter, r *http.Request) {
	var req client.RegisterBankOfficerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeFail(w, http.StatusBadRequest, client.UserMessage(err))
		return
	}
	prof, err := s.store.CreateAccount(req.Name, req.Email, req.Password, client.RoleBankOfficer, req.BankID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, "Bank officer registered", authPayload{User: &prof})
}
