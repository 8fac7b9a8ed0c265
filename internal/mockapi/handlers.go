package mockapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"clubmock/internal/domain"
	"clubmock/internal/store"
)

const defaultEmailDomain = "@nu.edu.eg"

// Options tunes the emulator. Zero latencies mean instant responses, which
// is what tests want.
type Options struct {
	ReadLatency  time.Duration
	WriteLatency time.Duration
	// EmailDomain is the required suffix for registration emails.
	// Defaults to "@nu.edu.eg".
	EmailDomain string
}

// API holds the emulator's handlers over an injected store and auth ports.
// It is stateless per request: every call is a function of the request, the
// current store state, and the token-derived identity.
type API struct {
	store     *store.Store
	tokens    domain.TokenCodec
	passwords domain.PasswordVerifier
	logger    *slog.Logger

	emailDomain  string
	readLatency  time.Duration
	writeLatency time.Duration

	routes []route
}

// New builds the emulator around the given store and auth ports.
func New(st *store.Store, tokens domain.TokenCodec, passwords domain.PasswordVerifier, logger *slog.Logger, opts Options) *API {
	if opts.EmailDomain == "" {
		opts.EmailDomain = defaultEmailDomain
	}
	a := &API{
		store:        st,
		tokens:       tokens,
		passwords:    passwords,
		logger:       logger,
		emailDomain:  opts.EmailDomain,
		readLatency:  opts.ReadLatency,
		writeLatency: opts.WriteLatency,
	}
	a.buildRoutes()
	return a
}

// ============ Auth helpers ============

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// currentUser resolves the caller's identity from the bearer token.
func (a *API) currentUser(r *http.Request) (domain.User, bool) {
	token := bearerToken(r)
	if token == "" {
		return domain.User{}, false
	}
	userID, err := a.tokens.Verify(token)
	if err != nil {
		return domain.User{}, false
	}
	return a.store.UserByID(userID)
}

func (a *API) isAdmin(r *http.Request) bool {
	user, ok := a.currentUser(r)
	return ok && user.Role == domain.RoleAdmin
}

func decodeJSON(body []byte, dst any) bool {
	if len(body) == 0 {
		return false
	}
	return json.Unmarshal(body, dst) == nil
}

// authResponse is the body returned by register and login.
type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// ============ Auth handlers ============

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (a *API) handleRegister(r *http.Request, body []byte, _ map[string]string) *result {
	var req registerRequest
	decodeJSON(body, &req)
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return fail(http.StatusBadRequest, "Missing required fields: email, password, firstName, lastName")
	}
	if !strings.HasSuffix(req.Email, a.emailDomain) {
		return fail(http.StatusBadRequest, fmt.Sprintf("Email must be a NU email address (%s)", a.emailDomain))
	}
	if _, exists := a.store.UserByEmail(req.Email); exists {
		return fail(http.StatusBadRequest, "Email already registered")
	}

	stored, err := a.passwords.Hash(req.Password)
	if err != nil {
		a.logger.Error("failed to hash password", "err", err)
		return fail(http.StatusInternalServerError, "Internal Server Error")
	}
	user := a.store.CreateUser(domain.User{
		Email:     req.Email,
		Password:  stored,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.RoleStudent,
	})

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		a.logger.Error("failed to issue token", "err", err)
		return fail(http.StatusInternalServerError, "Internal Server Error")
	}
	return ok(http.StatusCreated, authResponse{Token: token, User: user.Sanitize()})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleLogin(r *http.Request, body []byte, _ map[string]string) *result {
	var req loginRequest
	decodeJSON(body, &req)
	if req.Email == "" || req.Password == "" {
		return fail(http.StatusBadRequest, "Email and password are required")
	}

	// Unknown email and wrong password get the same answer.
	user, found := a.store.UserByEmail(req.Email)
	if !found || a.passwords.Compare(user.Password, req.Password) != nil {
		return fail(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		a.logger.Error("failed to issue token", "err", err)
		return fail(http.StatusInternalServerError, "Internal Server Error")
	}
	return ok(http.StatusOK, authResponse{Token: token, User: user.Sanitize()})
}

func (a *API) handleMe(r *http.Request, _ []byte, _ map[string]string) *result {
	if bearerToken(r) == "" {
		return fail(http.StatusUnauthorized, "Unauthorized - no token provided")
	}
	user, found := a.currentUser(r)
	if !found {
		return fail(http.StatusUnauthorized, "Unauthorized - invalid token")
	}
	return ok(http.StatusOK, user.Sanitize())
}

// ============ Clubs ============

func (a *API) handleListClubs(*http.Request, []byte, map[string]string) *result {
	return ok(http.StatusOK, a.store.Clubs())
}

func (a *API) handleGetClub(_ *http.Request, _ []byte, params map[string]string) *result {
	club, found := a.store.ClubByID(params["id"])
	if !found {
		return fail(http.StatusNotFound, "Club not found")
	}
	return ok(http.StatusOK, club)
}

type createClubRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Overview    string `json:"overview"`
	Mission     string `json:"mission"`
	Founders    string `json:"founders"`
	President   string `json:"president"`
	Email       string `json:"email"`
	Category    string `json:"category"`
	Logo        string `json:"logo"`
	IsActive    *bool  `json:"isActive"`
}

func (a *API) handleCreateClub(_ *http.Request, body []byte, _ map[string]string) *result {
	var req createClubRequest
	decodeJSON(body, &req)
	if req.Name == "" || req.Email == "" {
		return fail(http.StatusBadRequest, "Missing required fields: name, email")
	}
	if req.President == "" {
		req.President = "TBD"
	}
	if req.Category == "" {
		req.Category = "General"
	}
	club := a.store.CreateClub(domain.Club{
		Name:        req.Name,
		Description: req.Description,
		Overview:    req.Overview,
		Mission:     req.Mission,
		Founders:    req.Founders,
		President:   req.President,
		Email:       req.Email,
		Category:    req.Category,
		Logo:        req.Logo,
		MemberCount: 0,
		IsActive:    req.IsActive == nil || *req.IsActive,
	})
	return ok(http.StatusCreated, club)
}

func (a *API) handleUpdateClub(_ *http.Request, body []byte, params map[string]string) *result {
	var patch store.ClubPatch
	decodeJSON(body, &patch)
	club, found := a.store.UpdateClub(params["id"], patch)
	if !found {
		return fail(http.StatusNotFound, "Club not found")
	}
	return ok(http.StatusOK, club)
}

func (a *API) handleDeleteClub(_ *http.Request, _ []byte, params map[string]string) *result {
	if !a.store.DeleteClub(params["id"]) {
		return fail(http.StatusNotFound, "Club not found")
	}
	return ok(http.StatusNoContent, nil)
}

// ============ Events ============

func (a *API) handleListEvents(*http.Request, []byte, map[string]string) *result {
	return ok(http.StatusOK, a.store.Events())
}

func (a *API) handleGetEvent(_ *http.Request, _ []byte, params map[string]string) *result {
	event, found := a.store.EventByID(params["id"])
	if !found {
		return fail(http.StatusNotFound, "Event not found")
	}
	return ok(http.StatusOK, event)
}

type createEventRequest struct {
	ClubID      string    `json:"clubId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
	ImageURL    string    `json:"imageUrl"`
}

func (a *API) handleCreateEvent(_ *http.Request, body []byte, _ map[string]string) *result {
	var req createEventRequest
	decodeJSON(body, &req)
	if req.ClubID == "" || req.Title == "" || req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fail(http.StatusBadRequest, "Missing required fields: clubId, title, startDate, endDate")
	}
	if req.Location == "" {
		req.Location = "TBD"
	}
	if req.Capacity == 0 {
		req.Capacity = 50
	}
	if req.ImageURL == "" {
		req.ImageURL = "https://via.placeholder.com/300x200"
	}
	event := a.store.CreateEvent(domain.Event{
		ClubID:        req.ClubID,
		Title:         req.Title,
		Description:   req.Description,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Location:      req.Location,
		Capacity:      req.Capacity,
		AttendeeCount: 0,
		ImageURL:      req.ImageURL,
	})
	return ok(http.StatusCreated, event)
}

func (a *API) handleDeleteEvent(_ *http.Request, _ []byte, params map[string]string) *result {
	if !a.store.DeleteEvent(params["id"]) {
		return fail(http.StatusNotFound, "Event not found")
	}
	return ok(http.StatusNoContent, nil)
}

// ============ Gallery ============

func (a *API) handleListGallery(*http.Request, []byte, map[string]string) *result {
	return ok(http.StatusOK, a.store.Gallery())
}

func (a *API) handleGetGalleryItem(_ *http.Request, _ []byte, params map[string]string) *result {
	item, found := a.store.GalleryItemByID(params["id"])
	if !found {
		return fail(http.StatusNotFound, "Gallery item not found")
	}
	return ok(http.StatusOK, item)
}

type createGalleryItemRequest struct {
	ClubID      string `json:"clubId"`
	ImageURL    string `json:"imageUrl"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (a *API) handleCreateGalleryItem(_ *http.Request, body []byte, _ map[string]string) *result {
	var req createGalleryItemRequest
	decodeJSON(body, &req)
	if req.ClubID == "" || req.ImageURL == "" || req.Title == "" {
		return fail(http.StatusBadRequest, "Missing required fields: clubId, imageUrl, title")
	}
	item := a.store.CreateGalleryItem(domain.GalleryItem{
		ClubID:      req.ClubID,
		ImageURL:    req.ImageURL,
		Title:       req.Title,
		Description: req.Description,
	})
	return ok(http.StatusCreated, item)
}

func (a *API) handleDeleteGalleryItem(_ *http.Request, _ []byte, params map[string]string) *result {
	if !a.store.DeleteGalleryItem(params["id"]) {
		return fail(http.StatusNotFound, "Gallery item not found")
	}
	return ok(http.StatusNoContent, nil)
}

// ============ Admins ============

func (a *API) handleListAdmins(*http.Request, []byte, map[string]string) *result {
	return ok(http.StatusOK, a.store.Admins())
}

func (a *API) handleGetAdmin(_ *http.Request, _ []byte, params map[string]string) *result {
	admin, found := a.store.AdminByID(params["id"])
	if !found {
		return fail(http.StatusNotFound, "Admin not found")
	}
	return ok(http.StatusOK, admin)
}

type createAdminRequest struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

func (a *API) handleCreateAdmin(_ *http.Request, body []byte, _ map[string]string) *result {
	var req createAdminRequest
	decodeJSON(body, &req)
	if req.UserID == "" || req.Email == "" {
		return fail(http.StatusBadRequest, "Missing required fields: userId, email")
	}
	if req.Role == "" {
		req.Role = string(domain.RoleAdmin)
	}
	admin := a.store.CreateAdmin(domain.Admin{
		UserID:    req.UserID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	return ok(http.StatusCreated, admin)
}

func (a *API) handleDeleteAdmin(_ *http.Request, _ []byte, params map[string]string) *result {
	if !a.store.DeleteAdmin(params["id"]) {
		return fail(http.StatusNotFound, "Admin not found")
	}
	return ok(http.StatusNoContent, nil)
}

// ============ Board members ============

func (a *API) handleListBoardMembers(*http.Request, []byte, map[string]string) *result {
	return ok(http.StatusOK, a.store.BoardMembers())
}

func (a *API) handleGetBoardMember(_ *http.Request, _ []byte, params map[string]string) *result {
	bm, found := a.store.BoardMemberByID(params["id"])
	if !found {
		return fail(http.StatusNotFound, "Board member not found")
	}
	return ok(http.StatusOK, bm)
}

type createBoardMemberRequest struct {
	UserID    string    `json:"userId"`
	ClubID    string    `json:"clubId"`
	Position  string    `json:"position"`
	JoinDate  time.Time `json:"joinDate"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

func (a *API) handleCreateBoardMember(_ *http.Request, body []byte, _ map[string]string) *result {
	var req createBoardMemberRequest
	decodeJSON(body, &req)
	if req.UserID == "" || req.ClubID == "" || req.Position == "" {
		return fail(http.StatusBadRequest, "Missing required fields: userId, clubId, position")
	}
	if req.JoinDate.IsZero() {
		req.JoinDate = time.Now()
	}
	bm := a.store.CreateBoardMember(domain.BoardMember{
		UserID:    req.UserID,
		ClubID:    req.ClubID,
		Position:  req.Position,
		JoinDate:  req.JoinDate,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	return ok(http.StatusCreated, bm)
}

func (a *API) handleDeleteBoardMember(_ *http.Request, _ []byte, params map[string]string) *result {
	if !a.store.DeleteBoardMember(params["id"]) {
		return fail(http.StatusNotFound, "Board member not found")
	}
	return ok(http.StatusNoContent, nil)
}

// ============ Committees ============

func (a *API) handleListCommittees(*http.Request, []byte, map[string]string) *result {
	return ok(http.StatusOK, a.store.Committees())
}

func (a *API) handleGetCommittee(_ *http.Request, _ []byte, params map[string]string) *result {
	committee, found := a.store.CommitteeByID(params["id"])
	if !found {
		return fail(http.StatusNotFound, "Committee not found")
	}
	return ok(http.StatusOK, committee)
}

type createCommitteeRequest struct {
	ClubID      string   `json:"clubId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

func (a *API) handleCreateCommittee(_ *http.Request, body []byte, _ map[string]string) *result {
	var req createCommitteeRequest
	decodeJSON(body, &req)
	if req.ClubID == "" || req.Name == "" {
		return fail(http.StatusBadRequest, "Missing required fields: clubId, name")
	}
	committee := a.store.CreateCommittee(domain.Committee{
		ClubID:      req.ClubID,
		Name:        req.Name,
		Description: req.Description,
		Members:     req.Members,
	})
	return ok(http.StatusCreated, committee)
}

func (a *API) handleDeleteCommittee(_ *http.Request, _ []byte, params map[string]string) *result {
	if !a.store.DeleteCommittee(params["id"]) {
		return fail(http.StatusNotFound, "Committee not found")
	}
	return ok(http.StatusNoContent, nil)
}

type addMemberRequest struct {
	UserID string `json:"userId"`
}

func (a *API) handleAddCommitteeMember(_ *http.Request, body []byte, params map[string]string) *result {
	var req addMemberRequest
	decodeJSON(body, &req)
	if req.UserID == "" {
		return fail(http.StatusBadRequest, "Missing required field: userId")
	}
	if !a.store.AddCommitteeMember(params["id"], req.UserID) {
		return fail(http.StatusNotFound, "Committee not found or member already exists")
	}
	return ok(http.StatusNoContent, nil)
}

func (a *API) handleRemoveCommitteeMember(_ *http.Request, _ []byte, params map[string]string) *result {
	if !a.store.RemoveCommitteeMember(params["id"], params["userId"]) {
		return fail(http.StatusNotFound, "Committee or member not found")
	}
	return ok(http.StatusNoContent, nil)
}
