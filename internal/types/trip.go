package types

// TravelStyle is one of the travel aesthetics a trip can be tagged with.
type TravelStyle string

const (
	TravelStyleRelaxed   TravelStyle = "Relaxed"
	TravelStyleAdventure TravelStyle = "Adventure"
	TravelStyleCultural  TravelStyle = "Cultural"
	TravelStyleLuxury    TravelStyle = "Luxury"
	TravelStyleBudget    TravelStyle = "Budget"
)

// TransportMode is the primary way of moving around during a trip.
type TransportMode string

const (
	TransportFlight TransportMode = "Flight"
	TransportTrain  TransportMode = "Train"
	TransportBus    TransportMode = "Bus"
	TransportCar    TransportMode = "Car"
	TransportWalk   TransportMode = "Walk"
)

const (
	MinTripDays = 1
	MaxTripDays = 14
)

var (
	TravelStyles   = []TravelStyle{TravelStyleRelaxed, TravelStyleAdventure, TravelStyleCultural, TravelStyleLuxury, TravelStyleBudget}
	TransportModes = []TransportMode{TransportFlight, TransportTrain, TransportBus, TransportCar, TransportWalk}
	BudgetLevels   = []string{"Budget", "Moderate", "High End", "Luxury"}
	TravelerGroups = []string{"Solo", "Couple", "Family", "Friends"}
)

// TripFormData is the payload of a single planning request. It is never persisted.
type TripFormData struct {
	Origin        string        `json:"origin" validate:"required"`
	Destination   string        `json:"destination" validate:"required"`
	Days          int           `json:"days" validate:"min=1,max=14"`
	Budget        string        `json:"budget" validate:"required,budget"`
	Travelers     string        `json:"travelers" validate:"required,travelers"`
	TransportMode TransportMode `json:"transportMode" validate:"required,transport_mode"`
	Style         []TravelStyle `json:"style" validate:"dive,travel_style"`
}

// WithDefaults returns a copy of the form with an empty style set replaced
// by Relaxed.
func (f TripFormData) WithDefaults() TripFormData {
	if len(f.Style) == 0 {
		f.Style = []TravelStyle{TravelStyleRelaxed}
		return f
	}
	styles := make([]TravelStyle, len(f.Style))
	copy(styles, f.Style)
	f.Style = styles
	return f
}

// StyleLabels returns the styles as plain strings, in submission order.
func (f TripFormData) StyleLabels() []string {
	labels := make([]string, 0, len(f.Style))
	for _, s := range f.Style {
		labels = append(labels, string(s))
	}
	return labels
}
