package hospital

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yml
var defaultSeed []byte

// Seed describes the records created on an empty store.
type Seed struct {
	Users           []SeedUser           `yaml:"users"`
	Specializations []SeedSpecialization `yaml:"specializations"`
}

type SeedUser struct {
	Role      Role         `yaml:"role"`
	FirstName string       `yaml:"firstName"`
	LastName  string       `yaml:"lastName"`
	Email     string       `yaml:"email"`
	Password  string       `yaml:"password"`
	Phone     string       `yaml:"phone"`
	Address   string       `yaml:"address"`
	Doctor    *SeedDoctor  `yaml:"doctor,omitempty"`
	Patient   *SeedPatient `yaml:"patient,omitempty"`
}

type SeedDoctor struct {
	Specialization string `yaml:"specialization"`
	LicenseNumber  string `yaml:"licenseNumber"`
	Experience     int    `yaml:"experience"`
}

type SeedPatient struct {
	DateOfBirth      string     `yaml:"dateOfBirth"`
	Gender           Gender     `yaml:"gender"`
	EmergencyContact *string    `yaml:"emergencyContact,omitempty"`
	BloodType        *BloodType `yaml:"bloodType,omitempty"`
}

type SeedSpecialization struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description,omitempty"`
}

// ParseSeed decodes a seed document and checks every role up front so a bad
// file fails before anything is written.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	for i, u := range seed.Users {
		if _, err := u.Role.Prefix(); err != nil {
			return nil, fmt.Errorf("seed user %d: %w", i, err)
		}
	}
	return &seed, nil
}

// DefaultSeed returns the built-in seed: one admin, one doctor, one
// receptionist, one patient and six specializations.
func DefaultSeed() *Seed {
	seed, err := ParseSeed(defaultSeed)
	if err != nil {
		panic(err)
	}
	return seed
}

// LoadSeed reads a seed file, or returns DefaultSeed when path is empty.
func LoadSeed(path string) (*Seed, error) {
	if path == "" {
		return DefaultSeed(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// InitializeDefaults populates an empty store from seed. It does nothing when
// any user already exists and reports whether it wrote anything.
func InitializeDefaults(ctx context.Context, repo RepositoryInterface, seed *Seed) (bool, error) {
	count, err := repo.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check existing users: %w", err)
	}
	if count > 0 {
		log.Printf("Store already has %d users, skipping default data", count)
		return false, nil
	}

	for _, su := range seed.Users {
		user, err := repo.CreateUser(ctx, CreateUserInput{
			FirstName: su.FirstName,
			LastName:  su.LastName,
			Email:     su.Email,
			Password:  su.Password,
			Phone:     su.Phone,
			Address:   su.Address,
			Role:      su.Role,
		})
		if err != nil {
			return false, fmt.Errorf("failed to seed user %s: %w", su.Email, err)
		}

		if su.Doctor != nil {
			experience := su.Doctor.Experience
			_, err = repo.CreateDoctor(ctx, CreateDoctorInput{
				UserID:         user.ID,
				Specialization: su.Doctor.Specialization,
				LicenseNumber:  su.Doctor.LicenseNumber,
				Experience:     &experience,
			})
			if err != nil {
				return false, fmt.Errorf("failed to seed doctor %s: %w", user.ID, err)
			}
		}

		if su.Patient != nil {
			_, err = repo.CreatePatient(ctx, CreatePatientInput{
				UserID:           user.ID,
				DateOfBirth:      su.Patient.DateOfBirth,
				Gender:           su.Patient.Gender,
				EmergencyContact: su.Patient.EmergencyContact,
				BloodType:        su.Patient.BloodType,
			})
			if err != nil {
				return false, fmt.Errorf("failed to seed patient %s: %w", user.ID, err)
			}
		}

		log.Printf("Seeded %s user %s", user.Role, user.ID)
	}

	for _, ss := range seed.Specializations {
		if _, err := repo.CreateSpecialization(ctx, CreateSpecializationInput{
			Name:        ss.Name,
			Description: ss.Description,
		}); err != nil {
			return false, fmt.Errorf("failed to seed specialization %s: %w", ss.Name, err)
		}
	}

	log.Printf("✓ Default data initialized: %d users, %d specializations", len(seed.Users), len(seed.Specializations))
	return true, nil
}
