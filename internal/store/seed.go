package store

import (
	"time"

	"clubmock/internal/domain"
)

// SeedIfEmpty populates all collections with the fixed demo dataset when the
// user collection is empty, then persists. Passwords pass through hash so the
// dataset matches the configured password scheme.
func (s *Store) SeedIfEmpty(hash func(password string) (string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.db.Users) > 0 {
		return nil
	}

	now := s.stamp()
	adminPassword, err := hash("admin123")
	if err != nil {
		return err
	}
	studentPassword, err := hash("student123")
	if err != nil {
		return err
	}

	s.db.Users = []domain.User{
		{
			ID:        "1",
			Email:     "admin@nu.edu.eg",
			FirstName: "Admin",
			LastName:  "User",
			Password:  adminPassword,
			Role:      domain.RoleAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "2",
			Email:     "student1@nu.edu.eg",
			FirstName: "Ahmed",
			LastName:  "Hassan",
			Password:  studentPassword,
			Role:      domain.RoleStudent,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "3",
			Email:     "student2@nu.edu.eg",
			FirstName: "Fatima",
			LastName:  "Mohamed",
			Password:  studentPassword,
			Role:      domain.RoleStudent,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	s.db.Admins = []domain.Admin{
		{
			ID:        "1",
			UserID:    "1",
			Email:     "admin@nu.edu.eg",
			FirstName: "Admin",
			LastName:  "User",
			Role:      string(domain.RoleAdmin),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	s.db.Clubs = []domain.Club{
		{
			ID:          "1",
			Name:        "Tech Club",
			Description: "A club for technology enthusiasts",
			Overview:    "Join us to explore cutting-edge technologies",
			Mission:     "To promote technology literacy and innovation",
			Founders:    "Ahmed Hassan",
			President:   "Ahmed Hassan",
			Email:       "tech@nu.edu.eg",
			Category:    "Technology",
			Logo:        "https://via.placeholder.com/150",
			MemberCount: 25,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "2",
			Name:        "Sports Club",
			Description: "A club for sports lovers",
			Overview:    "Participate in various sports and fitness activities",
			Mission:     "To promote healthy lifestyle and teamwork",
			Founders:    "Fatima Mohamed",
			President:   "Fatima Mohamed",
			Email:       "sports@nu.edu.eg",
			Category:    "Sports",
			Logo:        "https://via.placeholder.com/150",
			MemberCount: 30,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	// Event dates are relative to seeding time so the demo calendar always
	// has upcoming entries.
	day := 24 * time.Hour
	s.db.Events = []domain.Event{
		seedEvent("1", "1", "Tech Workshop: Web Development",
			"Learn modern web development techniques",
			now.Add(day), now.Add(day), "Tech Lab, Building A", 50, 20, now),
		seedEvent("2", "2", "Football Tournament",
			"Inter-club football championship",
			now.Add(7*day), now.Add(7*day), "Sports Complex", 100, 45, now),
		seedEvent("3", "1", "AI & Machine Learning Workshop",
			"Introduction to artificial intelligence and machine learning",
			now.Add(3*day), now.Add(3*day), "Computer Lab 301", 40, 15, now),
		seedEvent("4", "2", "Basketball Championship",
			"Annual basketball tournament for all students",
			now.Add(10*day), now.Add(10*day), "Basketball Court", 80, 32, now),
		seedEvent("5", "1", "Hackathon 2026",
			"24-hour coding competition with amazing prizes",
			now.Add(14*day), now.Add(15*day), "Innovation Hub", 60, 28, now),
		seedEvent("6", "2", "Yoga & Fitness Session",
			"Weekly yoga and fitness training for all levels",
			now.Add(2*day), now.Add(2*day), "Gym Hall", 30, 18, now),
		seedEvent("7", "1", "Cybersecurity Seminar",
			"Learn about the latest trends in cybersecurity",
			now.Add(5*day), now.Add(5*day), "Auditorium B", 100, 67, now),
		seedEvent("8", "2", "Swimming Competition",
			"Inter-university swimming championship",
			now.Add(20*day), now.Add(20*day), "Olympic Pool", 50, 22, now),
	}

	s.db.Gallery = []domain.GalleryItem{
		{
			ID:          "1",
			ImageURL:    "https://via.placeholder.com/400x300",
			Title:       "Tech Conference 2024",
			Description: "Highlights from our annual tech conference",
			ClubID:      "1",
			CreatedAt:   now,
		},
		{
			ID:          "2",
			ImageURL:    "https://via.placeholder.com/400x300",
			Title:       "Sports Day",
			Description: "Annual sports day celebration",
			ClubID:      "2",
			CreatedAt:   now,
		},
	}

	s.db.Committees = []domain.Committee{
		{
			ID:          "1",
			ClubID:      "1",
			Name:        "Technical Committee",
			Description: "Responsible for technical events",
			Members:     []string{"2"},
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "2",
			ClubID:      "2",
			Name:        "Sports Committee",
			Description: "Responsible for sports events",
			Members:     []string{"3"},
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	s.db.BoardMembers = []domain.BoardMember{
		{
			ID:        "1",
			UserID:    "2",
			ClubID:    "1",
			Position:  "President",
			JoinDate:  now,
			Email:     "student1@nu.edu.eg",
			FirstName: "Ahmed",
			LastName:  "Hassan",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "2",
			UserID:    "3",
			ClubID:    "2",
			Position:  "President",
			JoinDate:  now,
			Email:     "student2@nu.edu.eg",
			FirstName: "Fatima",
			LastName:  "Mohamed",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	s.save()
	s.logger.Info("seeded demo dataset",
		"users", len(s.db.Users),
		"clubs", len(s.db.Clubs),
		"events", len(s.db.Events),
	)
	return nil
}

func seedEvent(id, clubID, title, description string, start, end time.Time, location string, capacity, attendees int, now time.Time) domain.Event {
	return domain.Event{
		ID:            id,
		ClubID:        clubID,
		Title:         title,
		Description:   description,
		StartDate:     start,
		EndDate:       end,
		Location:      location,
		Capacity:      capacity,
		AttendeeCount: attendees,
		ImageURL:      "https://via.placeholder.com/300x200",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
