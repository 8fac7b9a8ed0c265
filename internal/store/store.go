// Package store owns the aggregate database behind the emulated API: seven
// entity collections serialized as one blob under a fixed key in a durable
// key-value engine.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"clubmock/internal/domain"
	"clubmock/internal/storage"
)

// dbKey is the single key the whole aggregate lives under.
const dbKey = "clubdb"

// database is the serialized aggregate. Field names match the blob layout
// the frontend's local storage used.
type database struct {
	Users        []domain.User        `json:"users"`
	Admins       []domain.Admin       `json:"admins"`
	BoardMembers []domain.BoardMember `json:"boardMembers"`
	Committees   []domain.Committee   `json:"committees"`
	Clubs        []domain.Club        `json:"clubs"`
	Events       []domain.Event       `json:"events"`
	Gallery      []domain.GalleryItem `json:"gallery"`
}

func emptyDatabase() database {
	return database{
		Users:        []domain.User{},
		Admins:       []domain.Admin{},
		BoardMembers: []domain.BoardMember{},
		Committees:   []domain.Committee{},
		Clubs:        []domain.Club{},
		Events:       []domain.Event{},
		Gallery:      []domain.GalleryItem{},
	}
}

// Store is the local database. It is constructed explicitly and injected;
// there is no package-level instance. All mutating calls persist the whole
// aggregate before returning.
type Store struct {
	mu     sync.Mutex
	kv     storage.KV
	logger *slog.Logger
	db     database

	now   func() time.Time
	newID func() string
}

// New creates a Store over the given engine. Call Load before first use.
func New(kv storage.KV, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger,
		db:     emptyDatabase(),
		now:    time.Now,
		newID:  generateID,
	}
}

// Load reads the aggregate blob. A missing or unparseable blob resets the
// store to empty: corruption is logged and recovered from, never surfaced.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, found, err := s.kv.Get(dbKey)
	if err != nil {
		s.logger.Error("failed to read store blob, starting empty", "err", err)
		s.db = emptyDatabase()
		return
	}
	if !found {
		s.db = emptyDatabase()
		return
	}
	var db database
	if err := json.Unmarshal(data, &db); err != nil {
		s.logger.Error("failed to parse store blob, starting empty", "err", err)
		s.db = emptyDatabase()
		return
	}
	s.db = db
}

// save serializes the whole aggregate and writes it back. There is no
// partial persistence. Write failures are logged, matching the soft-fail
// contract of the rest of the store.
func (s *Store) save() {
	data, err := json.Marshal(s.db)
	if err != nil {
		s.logger.Error("failed to serialize store blob", "err", err)
		return
	}
	if err := s.kv.Put(dbKey, data); err != nil {
		s.logger.Error("failed to persist store blob", "err", err)
	}
}

// Reset clears all collections and removes the persisted blob.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db = emptyDatabase()
	if err := s.kv.Delete(dbKey); err != nil {
		s.logger.Error("failed to delete store blob", "err", err)
	}
}

func (s *Store) stamp() time.Time {
	return s.now()
}

// generateID builds a time-based id with a random base36 suffix. Not
// cryptographically unique, but collision-improbable at this workload.
func generateID() string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return fmt.Sprintf("id_%d_%s", time.Now().UnixMilli(), suffix)
}

// ============ Users ============

// Users returns a copy of the user collection.
func (s *Store) Users() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.User(nil), s.db.Users...)
}

// UserByEmail finds a user by exact email.
func (s *Store) UserByEmail(email string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.db.Users {
		if u.Email == email {
			return u, true
		}
	}
	return domain.User{}, false
}

// UserByID finds a user by id.
func (s *Store) UserByID(id string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.db.Users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// CreateUser stamps id and timestamps, appends, persists, and returns the
// created record.
func (s *Store) CreateUser(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.stamp()
	u.ID = s.newID()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.db.Users = append(s.db.Users, u)
	s.save()
	return u
}

// ============ Admins ============

func (s *Store) Admins() []domain.Admin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Admin(nil), s.db.Admins...)
}

func (s *Store) AdminByID(id string) (domain.Admin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.db.Admins {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Admin{}, false
}

func (s *Store) CreateAdmin(a domain.Admin) domain.Admin {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.stamp()
	a.ID = s.newID()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.db.Admins = append(s.db.Admins, a)
	s.save()
	return a
}

// DeleteAdmin removes by id and reports whether a record was removed.
func (s *Store) DeleteAdmin(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.db.Admins {
		if a.ID == id {
			s.db.Admins = append(s.db.Admins[:i], s.db.Admins[i+1:]...)
			s.save()
			return true
		}
	}
	return false
}

// ============ Board members ============

func (s *Store) BoardMembers() []domain.BoardMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.BoardMember(nil), s.db.BoardMembers...)
}

func (s *Store) BoardMemberByID(id string) (domain.BoardMember, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, bm := range s.db.BoardMembers {
		if bm.ID == id {
			return bm, true
		}
	}
	return domain.BoardMember{}, false
}

func (s *Store) CreateBoardMember(bm domain.BoardMember) domain.BoardMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.stamp()
	bm.ID = s.newID()
	bm.CreatedAt = now
	bm.UpdatedAt = now
	s.db.BoardMembers = append(s.db.BoardMembers, bm)
	s.save()
	return bm
}

func (s *Store) DeleteBoardMember(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, bm := range s.db.BoardMembers {
		if bm.ID == id {
			s.db.BoardMembers = append(s.db.BoardMembers[:i], s.db.BoardMembers[i+1:]...)
			s.save()
			return true
		}
	}
	return false
}

// ============ Committees ============

func (s *Store) Committees() []domain.Committee {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Committee(nil), s.db.Committees...)
}

func (s *Store) CommitteeByID(id string) (domain.Committee, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, _, ok := s.committeeIndex(id)
	return c, ok
}

// committeeIndex must be called with the lock held.
func (s *Store) committeeIndex(id string) (domain.Committee, int, bool) {
	for i, c := range s.db.Committees {
		if c.ID == id {
			return c, i, true
		}
	}
	return domain.Committee{}, -1, false
}

func (s *Store) CreateCommittee(c domain.Committee) domain.Committee {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.stamp()
	c.ID = s.newID()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Members == nil {
		c.Members = []string{}
	}
	s.db.Committees = append(s.db.Committees, c)
	s.save()
	return c
}

func (s *Store) DeleteCommittee(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.db.Committees {
		if c.ID == id {
			s.db.Committees = append(s.db.Committees[:i], s.db.Committees[i+1:]...)
			s.save()
			return true
		}
	}
	return false
}

// AddCommitteeMember adds userID to the committee's member list. It never
// inserts a duplicate; adding an existing member reports false, as does an
// unknown committee.
func (s *Store) AddCommitteeMember(committeeID, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, i, ok := s.committeeIndex(committeeID)
	if !ok {
		return false
	}
	for _, m := range s.db.Committees[i].Members {
		if m == userID {
			return false
		}
	}
	s.db.Committees[i].Members = append(s.db.Committees[i].Members, userID)
	s.save()
	return true
}

// RemoveCommitteeMember removes userID from the committee's member list,
// reporting false when the committee or the member is absent.
func (s *Store) RemoveCommitteeMember(committeeID, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, i, ok := s.committeeIndex(committeeID)
	if !ok {
		return false
	}
	members := s.db.Committees[i].Members
	for j, m := range members {
		if m == userID {
			s.db.Committees[i].Members = append(members[:j], members[j+1:]...)
			s.save()
			return true
		}
	}
	return false
}

// ============ Clubs ============

func (s *Store) Clubs() []domain.Club {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Club(nil), s.db.Clubs...)
}

func (s *Store) ClubByID(id string) (domain.Club, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.db.Clubs {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Club{}, false
}

func (s *Store) CreateClub(c domain.Club) domain.Club {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.stamp()
	c.ID = s.newID()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.db.Clubs = append(s.db.Clubs, c)
	s.save()
	return c
}

// ClubPatch is a partial club update; nil fields are left untouched.
type ClubPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Overview    *string `json:"overview"`
	Mission     *string `json:"mission"`
	Founders    *string `json:"founders"`
	President   *string `json:"president"`
	Email       *string `json:"email"`
	Category    *string `json:"category"`
	Logo        *string `json:"logo"`
	MemberCount *int    `json:"memberCount"`
	IsActive    *bool   `json:"isActive"`
}

// UpdateClub merges the patch into the matching record, bumps updatedAt,
// persists, and returns the updated record. The second return is false when
// no record matches.
func (s *Store) UpdateClub(id string, p ClubPatch) (domain.Club, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.db.Clubs {
		if s.db.Clubs[i].ID != id {
			continue
		}
		c := &s.db.Clubs[i]
		if p.Name != nil {
			c.Name = *p.Name
		}
		if p.Description != nil {
			c.Description = *p.Description
		}
		if p.Overview != nil {
			c.Overview = *p.Overview
		}
		if p.Mission != nil {
			c.Mission = *p.Mission
		}
		if p.Founders != nil {
			c.Founders = *p.Founders
		}
		if p.President != nil {
			c.President = *p.President
		}
		if p.Email != nil {
			c.Email = *p.Email
		}
		if p.Category != nil {
			c.Category = *p.Category
		}
		if p.Logo != nil {
			c.Logo = *p.Logo
		}
		if p.MemberCount != nil {
			c.MemberCount = *p.MemberCount
		}
		if p.IsActive != nil {
			c.IsActive = *p.IsActive
		}
		c.UpdatedAt = s.stamp()
		s.save()
		return *c, true
	}
	return domain.Club{}, false
}

func (s *Store) DeleteClub(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.db.Clubs {
		if c.ID == id {
			s.db.Clubs = append(s.db.Clubs[:i], s.db.Clubs[i+1:]...)
			s.save()
			return true
		}
	}
	return false
}

// ============ Events ============

func (s *Store) Events() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Event(nil), s.db.Events...)
}

func (s *Store) EventByID(id string) (domain.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.db.Events {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Event{}, false
}

func (s *Store) CreateEvent(e domain.Event) domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.stamp()
	e.ID = s.newID()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.db.Events = append(s.db.Events, e)
	s.save()
	return e
}

// EventPatch is a partial event update; nil fields are left untouched.
type EventPatch struct {
	ClubID        *string    `json:"clubId"`
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	StartDate     *time.Time `json:"startDate"`
	EndDate       *time.Time `json:"endDate"`
	Location      *string    `json:"location"`
	Capacity      *int       `json:"capacity"`
	AttendeeCount *int       `json:"attendeeCount"`
	ImageURL      *string    `json:"imageUrl"`
}

// UpdateEvent merges the patch into the matching record, bumps updatedAt,
// persists, and returns the updated record. The second return is false when
// no record matches.
func (s *Store) UpdateEvent(id string, p EventPatch) (domain.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.db.Events {
		if s.db.Events[i].ID != id {
			continue
		}
		e := &s.db.Events[i]
		if p.ClubID != nil {
			e.ClubID = *p.ClubID
		}
		if p.Title != nil {
			e.Title = *p.Title
		}
		if p.Description != nil {
			e.Description = *p.Description
		}
		if p.StartDate != nil {
			e.StartDate = *p.StartDate
		}
		if p.EndDate != nil {
			e.EndDate = *p.EndDate
		}
		if p.Location != nil {
			e.Location = *p.Location
		}
		if p.Capacity != nil {
			e.Capacity = *p.Capacity
		}
		if p.AttendeeCount != nil {
			e.AttendeeCount = *p.AttendeeCount
		}
		if p.ImageURL != nil {
			e.ImageURL = *p.ImageURL
		}
		e.UpdatedAt = s.stamp()
		s.save()
		return *e, true
	}
	return domain.Event{}, false
}

func (s *Store) DeleteEvent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.db.Events {
		if e.ID == id {
			s.db.Events = append(s.db.Events[:i], s.db.Events[i+1:]...)
			s.save()
			return true
		}
	}
	return false
}

// ============ Gallery ============

func (s *Store) Gallery() []domain.GalleryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.GalleryItem(nil), s.db.Gallery...)
}

func (s *Store) GalleryItemByID(id string) (domain.GalleryItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.db.Gallery {
		if g.ID == id {
			return g, true
		}
	}
	return domain.GalleryItem{}, false
}

func (s *Store) CreateGalleryItem(g domain.GalleryItem) domain.GalleryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.newID()
	g.CreatedAt = s.stamp()
	s.db.Gallery = append(s.db.Gallery, g)
	s.save()
	return g
}

func (s *Store) DeleteGalleryItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.db.Gallery {
		if g.ID == id {
			s.db.Gallery = append(s.db.Gallery[:i], s.db.Gallery[i+1:]...)
			s.save()
			return true
		}
	}
	return false
}
