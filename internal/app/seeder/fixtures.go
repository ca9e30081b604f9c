package seeder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/petboarding/petboarding-backend/internal/domain"
)

// Fixtures is the content of a seed file. Records reference each other by
// their fixture key, never by database id.
type Fixtures struct {
	Users    []UserFixture    `yaml:"users"`
	Pets     []PetFixture     `yaml:"pets"`
	Bookings []BookingFixture `yaml:"bookings"`
	Settings *SettingsFixture `yaml:"settings"`
}

// UserFixture describes one user.
type UserFixture struct {
	Key         string            `yaml:"key"`
	Email       string            `yaml:"email"`
	FirstName   *string           `yaml:"firstName"`
	LastName    *string           `yaml:"lastName"`
	PhoneNumber *string           `yaml:"phoneNumber"`
	Password    *string           `yaml:"password"`
	Roles       []domain.UserRole `yaml:"roles"`
	Status      domain.UserStatus `yaml:"status"`
}

// PetFixture describes one pet. Owner is a user key.
type PetFixture struct {
	Key   string         `yaml:"key"`
	Owner string         `yaml:"owner"`
	Name  string         `yaml:"name"`
	Type  domain.PetType `yaml:"type"`
	Breed string         `yaml:"breed"`
	Size  domain.PetSize `yaml:"size"`
}

// BookingFixture describes one booking. Owner is a user key, Pet a pet key.
type BookingFixture struct {
	Key               string               `yaml:"key"`
	Owner             string               `yaml:"owner"`
	Pet               string               `yaml:"pet"`
	Arrival           time.Time            `yaml:"arrival"`
	Departure         time.Time            `yaml:"departure"`
	ClientNotes       *string              `yaml:"clientNotes"`
	EmployeeNotes     *string              `yaml:"employeeNotes"`
	Status            domain.BookingStatus `yaml:"status"`
	CancellationNotes *string              `yaml:"cancellationNotes"`
	Fee               *decimal.Decimal     `yaml:"fee"`
}

// SettingsFixture holds the settings to save after all records exist.
type SettingsFixture struct {
	Theme    *string          `yaml:"theme"`
	DailyFee *decimal.Decimal `yaml:"dailyFee"`
	Capacity *int             `yaml:"capacity"`
}

// LoadFile reads fixtures from a YAML file.
func LoadFile(path string) (Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses fixtures and checks keys and references. Unknown YAML fields
// are rejected.
func Decode(r io.Reader) (Fixtures, error) {
	var fx Fixtures

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}

	if err := fx.Validate(); err != nil {
		return Fixtures{}, err
	}
	return fx, nil
}

// Validate checks that keys are present and unique per section and that
// every reference names a key of the referenced section.
func (fx Fixtures) Validate() error {
	var errs []error

	users := keySet(&errs, "users", len(fx.Users), func(i int) string { return fx.Users[i].Key })
	pets := keySet(&errs, "pets", len(fx.Pets), func(i int) string { return fx.Pets[i].Key })
	keySet(&errs, "bookings", len(fx.Bookings), func(i int) string { return fx.Bookings[i].Key })

	for _, p := range fx.Pets {
		checkRef(&errs, "pets", p.Key, "owner", p.Owner, users)
	}
	for _, b := range fx.Bookings {
		checkRef(&errs, "bookings", b.Key, "owner", b.Owner, users)
		checkRef(&errs, "bookings", b.Key, "pet", b.Pet, pets)
	}

	return errors.Join(errs...)
}

func keySet(errs *[]error, section string, n int, key func(int) string) map[string]bool {
	seen := make(map[string]bool, n)
	for i := range n {
		k := key(i)
		switch {
		case k == "":
			*errs = append(*errs, fmt.Errorf("%s[%d]: key is required", section, i))
		case seen[k]:
			*errs = append(*errs, fmt.Errorf("%s[%d]: duplicate key %q", section, i, k))
		}
		seen[k] = true
	}
	return seen
}

func checkRef(errs *[]error, section, key, field, ref string, known map[string]bool) {
	if ref != "" && !known[ref] {
		*errs = append(*errs, fmt.Errorf("%s %q: %s references unknown key %q", section, key, field, ref))
	}
}

func (u UserFixture) input() domain.UserInput {
	return domain.UserInput{
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Password:    u.Password,
		Roles:       u.Roles,
		Status:      u.Status,
	}
}

func (p PetFixture) input(users refs) domain.PetInput {
	return domain.PetInput{
		Owner: users.lookup(p.Owner),
		Name:  p.Name,
		Type:  p.Type,
		Breed: p.Breed,
		Size:  p.Size,
	}
}

func (b BookingFixture) input(users, pets refs) domain.BookingInput {
	return domain.BookingInput{
		Owner:             users.lookup(b.Owner),
		Pet:               pets.lookup(b.Pet),
		Arrival:           b.Arrival,
		Departure:         b.Departure,
		ClientNotes:       b.ClientNotes,
		EmployeeNotes:     b.EmployeeNotes,
		Status:            b.Status,
		CancellationNotes: b.CancellationNotes,
		Fee:               b.Fee,
	}
}

func (s SettingsFixture) input() domain.SettingsInput {
	return domain.SettingsInput{
		Theme:    s.Theme,
		DailyFee: s.DailyFee,
		Capacity: s.Capacity,
	}
}
