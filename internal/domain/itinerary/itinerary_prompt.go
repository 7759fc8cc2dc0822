package itinerary

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/FACorreiaa/planmesh-api/internal/types"
)

// buildItineraryPrompt embeds the trip parameters and the fixed content
// requirements. The form must already carry its defaults.
func buildItineraryPrompt(form types.TripFormData) string {
	mode := form.TransportMode
	return fmt.Sprintf(`
    Plan a ready-to-share travel itinerary with an upbeat, Gen-Z voice.

    Trip details:
    - Origin: %s
    - Destination: %s
    - Duration: %d days
    - Travelers: %s
    - Budget level: %s
    - Travel styles: %s
    - Primary transport mode: %s

    Requirements:
    1. Coordinates: give precise latitude/longitude for the destination and the origin so they can be plotted on a globe.
    2. Costs: every total estimate must be stated in the origin currency and in the destination currency, with an approximate exchange rate.
    3. Tone: fun, energetic and genuinely useful.
    4. Daily quotes: each day gets a short, funny quote in Hinglish (Hindi mixed with English) or playful English slang, e.g. "Aaj sirf ghoomna hai, calories kal count karenge".
    5. Secret tips: hidden gems and local hacks that do not appear on the usual tourist lists.
    6. Booking help: name the neighbourhood to stay in and what to ride or rent, given the traveler chose %s.
    7. Transport logic: the traveler moves by %s, so pace the activities accordingly (on foot keep stops close together, by car longer hops are fine).
    8. Return exactly %d day plans, numbered from 1.
  `,
		form.Origin,
		form.Destination,
		form.Days,
		form.Travelers,
		form.Budget,
		strings.Join(form.StyleLabels(), ", "),
		mode,
		mode,
		mode,
		form.Days,
	)
}

func buildProfileImagePrompt(style string) string {
	return fmt.Sprintf("Create a bold, stylized profile picture avatar. Style: %s. Artistic, high quality, face centered in frame.", style)
}

func stringSchema(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func stringListSchema(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Items:       &genai.Schema{Type: genai.TypeString},
		Description: description,
	}
}

func coordinatesSchema(of string) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"lat": {Type: genai.TypeNumber, Description: "Latitude of the " + of},
			"lng": {Type: genai.TypeNumber, Description: "Longitude of the " + of},
		},
		Required: []string{"lat", "lng"},
	}
}

// itinerarySchema mirrors types.Itinerary. transportMode is absent on purpose:
// it is copied from the request after parsing.
func itinerarySchema() *genai.Schema {
	activity := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"time":          stringSchema("Time of day, e.g. Morning or 10:00 AM"),
			"title":         stringSchema("Name of the activity"),
			"description":   stringSchema("Two sentences on what to do"),
			"location":      stringSchema("Specific place name"),
			"estimatedCost": stringSchema("Estimated cost in the local currency"),
		},
		Required: []string{"time", "title", "description"},
	}

	day := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"dayNumber":  {Type: genai.TypeInteger},
			"dailyQuote": stringSchema("Short humorous quote for the day mixing English and Hindi (Hinglish)"),
			"theme":      stringSchema("Short theme for the day, e.g. Historical Dive"),
			"summary":    stringSchema("One sentence summary of the day"),
			"activities": {Type: genai.TypeArray, Items: activity},
		},
		Required: []string{"dayNumber", "theme", "activities", "summary", "dailyQuote"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"destinationName":    stringSchema("Official name of the destination"),
			"coordinates":        coordinatesSchema("destination city center"),
			"originCoordinates":  coordinatesSchema("origin city"),
			"durationDays":       {Type: genai.TypeInteger},
			"totalEstimatedCost": stringSchema("Total estimated cost in origin and destination currencies, e.g. $2000 USD / ¥300,000 JPY"),
			"currency":           stringSchema("Local currency code, e.g. JPY"),
			"exchangeRateInfo":   stringSchema("Approximate exchange rate, e.g. 1 USD ≈ 150 JPY"),
			"overview":           stringSchema("A catchy two sentence overview of the trip"),
			"precautions":        stringListSchema("3-5 safety precautions or etiquette tips for the destination"),
			"secretTips":         stringListSchema("3 hidden gems or hacks tourists usually miss"),
			"youtubeSearchTerms": stringListSchema("3 search queries for good YouTube travel guides on this trip"),
			"packingTips":        stringListSchema("5 essential items to pack for this trip"),
			"bookingSuggestions": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"hotelArea":     stringSchema("Best neighbourhood to book a hotel in"),
					"transportType": stringSchema("Vehicle to rent or booking advice, e.g. Rent a scooter"),
				},
				Required: []string{"hotelArea", "transportType"},
			},
			"days": {Type: genai.TypeArray, Items: day},
		},
		Required: []string{
			"destinationName", "coordinates", "originCoordinates", "durationDays",
			"totalEstimatedCost", "days", "overview", "packingTips", "precautions",
			"youtubeSearchTerms", "exchangeRateInfo", "secretTips", "bookingSuggestions",
		},
	}
}
