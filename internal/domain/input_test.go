package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func ptr[T any](v T) *T { return &v }

func fieldsOf(t *testing.T, err error) map[string]bool {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	out := make(map[string]bool, len(ve.Errors))
	for _, fe := range ve.Errors {
		out[fe.Field] = true
	}
	return out
}

func TestBookingInput_Validate(t *testing.T) {
	t.Parallel()

	arrival := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	valid := BookingInput{
		Arrival:   arrival,
		Departure: arrival.AddDate(0, 0, 4),
		Status:    BookingStatusBooked,
		Fee:       ptr(decimal.NewFromInt(100)),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input: unexpected error: %v", err)
	}

	err := BookingInput{}.Validate()
	fields := fieldsOf(t, err)
	for _, f := range []string{"arrival", "departure", "status"} {
		if !fields[f] {
			t.Errorf("expected error on %s", f)
		}
	}

	reversed := valid
	reversed.Departure = arrival.AddDate(0, 0, -1)
	if !fieldsOf(t, reversed.Validate())["departure"] {
		t.Error("expected departure error when departure is before arrival")
	}

	negative := valid
	negative.Fee = ptr(decimal.NewFromInt(-1))
	if !fieldsOf(t, negative.Validate())["fee"] {
		t.Error("expected fee error for negative fee")
	}
}

func TestBookingUpdate_AuditValuesOnlySubmitted(t *testing.T) {
	t.Parallel()

	status := BookingStatusCancelled
	v := BookingUpdate{Status: &status, Pet: ptr(uuid.Nil)}.AuditValues()

	if len(v) != 2 {
		t.Fatalf("expected 2 values, got %d: %v", len(v), v)
	}
	if v["status"] != "cancelled" {
		t.Errorf("status = %v", v["status"])
	}
	if pet, ok := v["pet"]; !ok || pet != nil {
		t.Errorf("pet = %v (present %v), want explicit nil", pet, ok)
	}
}

func TestPetInput_Validate(t *testing.T) {
	t.Parallel()

	ok := PetInput{Name: "Rex", Type: PetTypeDog, Breed: "Beagle", Size: PetSizeMedium}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := fieldsOf(t, PetInput{Name: "  ", Type: "fish", Bookings: []uuid.UUID{uuid.Nil}}.Validate())
	for _, f := range []string{"name", "type", "breed", "size", "bookings"} {
		if !fields[f] {
			t.Errorf("expected error on %s", f)
		}
	}
}

func TestPetUpdate_AuditValues(t *testing.T) {
	t.Parallel()

	b := uuid.New()
	v := PetUpdate{Name: ptr("Rex"), Bookings: []uuid.UUID{b}}.AuditValues()
	if v["name"] != "Rex" {
		t.Errorf("name = %v", v["name"])
	}
	ids, okIDs := v["bookings"].([]string)
	if !okIDs || len(ids) != 1 || ids[0] != b.String() {
		t.Errorf("bookings = %v", v["bookings"])
	}
	if _, present := v["owner"]; present {
		t.Error("owner should be absent")
	}
}

func TestUserInput_Validate(t *testing.T) {
	t.Parallel()

	ok := UserInput{Email: "ann@example.com", Roles: []UserRole{UserRoleEmployee}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := fieldsOf(t, UserInput{Email: "not-an-email", Password: ptr("short"), Roles: []UserRole{"root"}}.Validate())
	for _, f := range []string{"email", "password", "roles"} {
		if !fields[f] {
			t.Errorf("expected error on %s", f)
		}
	}
}

func TestUserInput_AuditValuesOmitPassword(t *testing.T) {
	t.Parallel()

	v := UserInput{Email: " Ann@Example.com ", Password: ptr("supersecret")}.AuditValues()
	if _, present := v["password"]; present {
		t.Error("password must never be audited")
	}
	if v["email"] != "ann@example.com" {
		t.Errorf("email = %v", v["email"])
	}
}

func TestBuildFullName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		first, last *string
		want        string
	}{
		{ptr("Ann"), ptr("Lee"), "Ann Lee"},
		{ptr("Ann"), nil, "Ann"},
		{nil, ptr(" Lee "), "Lee"},
		{nil, nil, ""},
	}
	for _, tt := range tests {
		if got := BuildFullName(tt.first, tt.last); got != tt.want {
			t.Errorf("BuildFullName() = %q, want %q", got, tt.want)
		}
	}
}

func TestBookingRef_Label(t *testing.T) {
	t.Parallel()

	ref := BookingRef{
		Arrival:   time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		Departure: time.Date(2024, 1, 5, 18, 0, 0, 0, time.UTC),
		Status:    BookingStatusBooked,
	}
	if got, want := ref.Label(), "2024-01-01 09:00 - 2024-01-05 18:00 (booked)"; got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
}

func TestSettingsInput_Validate(t *testing.T) {
	t.Parallel()

	if err := (SettingsInput{Capacity: ptr(10)}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields := fieldsOf(t, SettingsInput{Capacity: ptr(-1), DailyFee: ptr(decimal.NewFromInt(-5))}.Validate())
	if !fields["capacity"] || !fields["dailyFee"] {
		t.Errorf("expected capacity and dailyFee errors, got %v", fields)
	}
}

func TestEnums_IsValid(t *testing.T) {
	t.Parallel()

	if !PetTypeCat.IsValid() || PetType("fish").IsValid() {
		t.Error("PetType.IsValid mismatch")
	}
	if !PetSizeLarge.IsValid() || PetSize("huge").IsValid() {
		t.Error("PetSize.IsValid mismatch")
	}
	if !BookingStatusProgress.IsValid() || BookingStatus("lost").IsValid() {
		t.Error("BookingStatus.IsValid mismatch")
	}
	if !EntityBooking.IsValid() || EntityName("card").IsValid() {
		t.Error("EntityName.IsValid mismatch")
	}
	if !AuditActionDelete.IsValid() || AuditAction("DELETE").IsValid() {
		t.Error("AuditAction.IsValid mismatch")
	}
}
