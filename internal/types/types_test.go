package types

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() TripFormData {
	return TripFormData{
		Origin:        "Delhi",
		Destination:   "Tokyo",
		Days:          5,
		Budget:        "Moderate",
		Travelers:     "Couple",
		TransportMode: TransportTrain,
		Style:         []TravelStyle{TravelStyleCultural},
	}
}

func TestTripFormData_WithDefaults(t *testing.T) {
	t.Run("empty style defaults to relaxed", func(t *testing.T) {
		form := validForm()
		form.Style = nil

		got := form.WithDefaults()

		assert.Equal(t, []TravelStyle{TravelStyleRelaxed}, got.Style)
		assert.Nil(t, form.Style, "caller's form must not be modified")
	})

	t.Run("existing styles are copied", func(t *testing.T) {
		form := validForm()
		got := form.WithDefaults()
		got.Style[0] = TravelStyleLuxury

		assert.Equal(t, TravelStyleCultural, form.Style[0])
	})
}

func TestValidator_TripFormData(t *testing.T) {
	v := Validator()

	tests := []struct {
		name    string
		mutate  func(*TripFormData)
		wantErr bool
	}{
		{name: "valid", mutate: func(*TripFormData) {}},
		{name: "empty style allowed", mutate: func(f *TripFormData) { f.Style = nil }},
		{name: "budget with space", mutate: func(f *TripFormData) { f.Budget = "High End" }},
		{name: "missing origin", mutate: func(f *TripFormData) { f.Origin = "" }, wantErr: true},
		{name: "zero days", mutate: func(f *TripFormData) { f.Days = 0 }, wantErr: true},
		{name: "too many days", mutate: func(f *TripFormData) { f.Days = 15 }, wantErr: true},
		{name: "unknown budget", mutate: func(f *TripFormData) { f.Budget = "Cheap" }, wantErr: true},
		{name: "unknown travelers", mutate: func(f *TripFormData) { f.Travelers = "Crowd" }, wantErr: true},
		{name: "unknown transport", mutate: func(f *TripFormData) { f.TransportMode = "Boat" }, wantErr: true},
		{name: "unknown style", mutate: func(f *TripFormData) { f.Style = []TravelStyle{"Party"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)
			err := v.Struct(form)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMustRegister_PanicsOnBadTag(t *testing.T) {
	v := Validator()
	assert.Panics(t, func() {
		mustRegister(v, "", func(validator.FieldLevel) bool { return true })
	})
}

func validItinerary() Itinerary {
	return Itinerary{
		DestinationName:    "Kyoto",
		Coordinates:        &Coordinates{Lat: 35.01, Lng: 135.77},
		OriginCoordinates:  &Coordinates{Lat: 28.61, Lng: 77.21},
		DurationDays:       2,
		TotalEstimatedCost: "¥120,000",
		ExchangeRateInfo:   "1 INR ≈ 1.8 JPY",
		Overview:           "Temples and tea.",
		Days: []DayPlan{
			{DayNumber: 1, DailyQuote: "q", Theme: "t", Summary: "s", Activities: []Activity{{Time: "Morning", Title: "Fushimi Inari", Description: "Gates."}}},
			{DayNumber: 2, DailyQuote: "q", Theme: "Rest", Summary: "Free day.", Activities: []Activity{}},
		},
		PackingTips:        []string{},
		Precautions:        []string{},
		YoutubeSearchTerms: []string{},
		SecretTips:         []string{},
		BookingSuggestions: BookingSuggestions{HotelArea: "Gion", TransportType: "Bus"},
	}
}

func TestValidator_Itinerary(t *testing.T) {
	v := Validator()

	tests := []struct {
		name    string
		mutate  func(*Itinerary)
		wantErr bool
	}{
		{name: "valid with an empty day", mutate: func(*Itinerary) {}},
		{name: "missing activities", mutate: func(it *Itinerary) { it.Days[1].Activities = nil }, wantErr: true},
		{name: "missing coordinates", mutate: func(it *Itinerary) { it.Coordinates = nil }, wantErr: true},
		{name: "missing origin coordinates", mutate: func(it *Itinerary) { it.OriginCoordinates = nil }, wantErr: true},
		{name: "latitude out of range", mutate: func(it *Itinerary) { it.Coordinates.Lat = 91 }, wantErr: true},
		{name: "no days", mutate: func(it *Itinerary) { it.Days = nil }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := validItinerary()
			tt.mutate(&it)
			err := v.Struct(it)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestItinerary_Clone(t *testing.T) {
	it := &Itinerary{
		DestinationName: "Tokyo",
		Days: []DayPlan{{
			DayNumber:  1,
			Activities: []Activity{{Time: "Morning", Title: "Tsukiji", Description: "Sushi breakfast."}},
		}},
		PackingTips: []string{"umbrella"},
	}

	clone, err := it.Clone()
	require.NoError(t, err)

	it.Days[0].Activities[0].Title = "changed"
	it.PackingTips[0] = "changed"

	assert.Equal(t, "Tsukiji", clone.Days[0].Activities[0].Title)
	assert.Equal(t, "umbrella", clone.PackingTips[0])
}

func TestUserRecord_Profile(t *testing.T) {
	var nilRecord *UserRecord
	assert.Nil(t, nilRecord.Profile())

	rec := &UserRecord{User: User{Email: "a@x.com", Name: "Ava"}, PasswordHash: "hash"}
	profile := rec.Profile()
	profile.Name = "Other"
	assert.Equal(t, "Ava", rec.Name)
}
