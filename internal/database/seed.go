package database

import (
	"fmt"
	"time"

	"shelterconnect/internal/domain"
	"shelterconnect/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DevPassword is the password of every seeded account.
const DevPassword = "password123"

// Seed inserts two shelters, two supporters and a spread of sample requests. It refuses to
// run on a database that already has users.
func Seed(db *gorm.DB) ([]models.User, error) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("seed: database already has %d users", count)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DevPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := []models.User{
		{Email: "shelter1@example.com", Name: "Shelter A", Role: domain.RoleShelter},
		{Email: "shelter2@example.com", Name: "Shelter B", Role: domain.RoleShelter},
		{Email: "supporter1@example.com", Name: "Supporter A", Role: domain.RoleSupporter},
		{Email: "supporter2@example.com", Name: "Supporter B", Role: domain.RoleSupporter},
	}
	for i := range users {
		users[i].PasswordHash = string(hash)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&users).Error; err != nil {
			return err
		}
		shelterA, shelterB := users[0].ID, users[1].ID
		supA, supB := users[2].ID, users[3].ID

		reqs := []models.Request{
			sample("Need blankets for winter", domain.RequestTypeSupplies, domain.UrgencyHigh, date("2025-02-01"),
				"We need 100 blankets to help homeless animals during winter", "London", domain.StatusPending, shelterA, nil),
			sample("Looking for volunteers for cleanup", domain.RequestTypeVolunteers, domain.UrgencyMedium, date("2025-03-01"),
				"We need 10 volunteers for a shelter cleanup drive", "Manchester", domain.StatusInProgress, shelterB, &supA),
			sample("Need medical supplies", domain.RequestTypeSupplies, domain.UrgencyLow, nil,
				"Any donations of medical supplies would be appreciated", "London", domain.StatusPending, shelterA, nil),
			sample("Dog training services required", domain.RequestTypeServices, domain.UrgencyHigh, nil,
				"We need professional training services for 5 rescue dogs", "Manchester", domain.StatusPending, shelterB, nil),
			sample("Seeking transport volunteers", domain.RequestTypeVolunteers, domain.UrgencyMedium, nil,
				"Volunteers needed to help transport animals to adoption centers.", "London", domain.StatusArchived, shelterA, nil),
		}
		urgencies := []domain.Urgency{domain.UrgencyHigh, domain.UrgencyMedium, domain.UrgencyLow}
		for i := 0; i < 15; i++ {
			n := i + 6
			rt, loc, creator, assignee := domain.RequestTypeSupplies, "London", shelterA, &supA
			if i%2 == 1 {
				rt, loc, creator, assignee = domain.RequestTypeServices, "Manchester", shelterB, &supB
			}
			var due *time.Time
			if i%5 == 0 {
				due = date("2025-04-01")
			}
			status := domain.StatusInProgress
			if i%4 == 0 {
				status, assignee = domain.StatusPending, nil
			}
			reqs = append(reqs, sample(fmt.Sprintf("General request #%d", n), rt, urgencies[i%3], due,
				fmt.Sprintf("Details for request #%d.", n), loc, status, creator, assignee))
		}
		return tx.Omit(clause.Associations).Create(&reqs).Error
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func sample(title string, rt domain.RequestType, u domain.Urgency, due *time.Time, details, loc string,
	status domain.RequestStatus, creator uint, assignee *uint) models.Request {
	return models.Request{
		Title: title, Type: rt, Urgency: u, DueDate: due, Details: details, Location: loc,
		Status: status, CreatorID: creator, AssignedToID: assignee,
	}
}

func date(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}
