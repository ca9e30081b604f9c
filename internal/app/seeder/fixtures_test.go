package seeder

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petboarding/petboarding-backend/internal/domain"
)

const sampleFixtures = `
users:
  - key: ann
    email: ann@example.com
    firstName: Ann
    lastName: Lee
    password: supersecret
    roles: [admin, employee]
  - key: bob
    email: bob@example.com
    roles: [petOwner]
pets:
  - key: rex
    owner: bob
    name: Rex
    type: dog
    breed: Beagle
    size: medium
bookings:
  - key: rex-jan
    owner: bob
    pet: rex
    arrival: 2024-01-01T12:00:00Z
    departure: 2024-01-05T12:00:00Z
    status: booked
    fee: "100.50"
settings:
  theme: dark
  dailyFee: 40
  capacity: 20
`

func TestDecode_Sample(t *testing.T) {
	fx, err := Decode(strings.NewReader(sampleFixtures))
	require.NoError(t, err)

	require.Len(t, fx.Users, 2)
	assert.Equal(t, "ann@example.com", fx.Users[0].Email)
	assert.Equal(t, []domain.UserRole{domain.UserRoleAdmin, domain.UserRoleEmployee}, fx.Users[0].Roles)
	require.NotNil(t, fx.Users[0].Password)

	require.Len(t, fx.Pets, 1)
	assert.Equal(t, domain.PetTypeDog, fx.Pets[0].Type)
	assert.Equal(t, "bob", fx.Pets[0].Owner)

	require.Len(t, fx.Bookings, 1)
	b := fx.Bookings[0]
	assert.True(t, b.Arrival.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))
	require.NotNil(t, b.Fee)
	assert.True(t, b.Fee.Equal(decimal.RequireFromString("100.5")))

	require.NotNil(t, fx.Settings)
	require.NotNil(t, fx.Settings.DailyFee)
	assert.True(t, fx.Settings.DailyFee.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 20, *fx.Settings.Capacity)
}

func TestDecode_Empty(t *testing.T) {
	fx, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, fx.Users)
	assert.Nil(t, fx.Settings)
}

func TestDecode_UnknownField(t *testing.T) {
	_, err := Decode(strings.NewReader("pets:\n  - key: rex\n    colour: brown\n"))
	require.Error(t, err)
}

func TestFixtures_Validate(t *testing.T) {
	fx := Fixtures{
		Users: []UserFixture{{Key: "ann"}, {Key: "ann"}, {}},
		Pets:  []PetFixture{{Key: "rex", Owner: "zed"}},
		Bookings: []BookingFixture{
			{Key: "b1", Pet: "tom"},
		},
	}

	err := fx.Validate()
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{
		`users[1]: duplicate key "ann"`,
		`users[2]: key is required`,
		`pets "rex": owner references unknown key "zed"`,
		`bookings "b1": pet references unknown key "tom"`,
	} {
		assert.Contains(t, msg, want)
	}
}
