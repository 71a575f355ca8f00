// Package appconfig holds the static application configuration served to
// clients on startup: dropdown lists, subscription plans and default limits.
// Plans are static config only; billing is handled elsewhere.
package appconfig

type AppConfig struct {
	Lists             Lists              `json:"lists"`
	SubscriptionPlans []SubscriptionPlan `json:"subscription_plans"`
	Limits            Limits             `json:"limits"`
}

type Lists struct {
	IndianStates        []string `json:"indian_states"`
	InterestOptions     []string `json:"interest_options"`
	HobbyOptions        []string `json:"hobby_options"`
	GenderOptions       []string `json:"gender_options"`
	MaritalOptions      []string `json:"marital_options"`
	LookingOptions      []string `json:"looking_options"`
	InterestedInOptions []string `json:"interested_in_options"`
}

type SubscriptionPlan struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Price          int      `json:"price"`
	CurrencySymbol string   `json:"currency_symbol"`
	DurationDays   int      `json:"duration_days"`
	DurationLabel  string   `json:"duration_label"`
	Features       []string `json:"features"`
	IsPopular      bool     `json:"is_popular"`
}

type Limits struct {
	AgeMin         int `json:"age_min"`
	AgeMax         int `json:"age_max"`
	SearchRadiusKm int `json:"search_radius_km"`
}

// Default returns the configuration served by GET /config/init.
func Default() AppConfig {
	return AppConfig{
		Lists: Lists{
			IndianStates: []string{
				"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
				"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand",
				"Karnataka", "Kerala", "Madhya Pradesh", "Maharashtra", "Manipur",
				"Meghalaya", "Mizoram", "Nagaland", "Odisha", "Punjab",
				"Rajasthan", "Sikkim", "Tamil Nadu", "Telangana", "Tripura",
				"Uttar Pradesh", "Uttarakhand", "West Bengal",
				"Andaman and Nicobar Islands", "Chandigarh",
				"Dadra and Nagar Haveli and Daman and Diu", "Delhi",
				"Jammu and Kashmir", "Ladakh", "Lakshadweep", "Puducherry",
			},
			InterestOptions: []string{
				"Music", "Movies", "Travel", "Fitness", "Cooking",
				"Art", "Tech", "Books", "Gaming", "Outdoors",
			},
			HobbyOptions: []string{
				"Photography", "Running", "Yoga", "Cycling", "Dancing",
				"Painting", "Gardening", "Chess", "Coding",
			},
			GenderOptions: []string{
				"Male", "Female", "Non-binary", "Prefer not to say",
			},
			MaritalOptions: []string{
				"Single", "In a relationship", "Divorced",
				"Separated", "Widowed", "Prefer not to say",
			},
			LookingOptions: []string{
				"Dating", "Friendship", "I don't know yet",
			},
			InterestedInOptions: []string{"Men", "Women", "Everyone"},
		},
		SubscriptionPlans: []SubscriptionPlan{
			{
				ID:             "monthly",
				Title:          "Monthly",
				Price:          299,
				CurrencySymbol: "₹",
				DurationDays:   30,
				DurationLabel:  "/ month",
				Features:       []string{"Unlimited Likes", "See Who Likes You", "Priority Showing"},
			},
			{
				ID:             "quarterly",
				Title:          "3 Months",
				Price:          599,
				CurrencySymbol: "₹",
				DurationDays:   90,
				DurationLabel:  "/ 3 months",
				Features:       []string{"Save 33%", "Unlimited Likes", "See Who Likes You"},
			},
			{
				ID:             "yearly",
				Title:          "Yearly",
				Price:          1999,
				CurrencySymbol: "₹",
				DurationDays:   365,
				DurationLabel:  "/ year",
				Features:       []string{"Best Value", "Save 45%", "Travel Mode", "No Ads Forever"},
				IsPopular:      true,
			},
		},
		Limits: Limits{
			AgeMin:         18,
			AgeMax:         60,
			SearchRadiusKm: 100,
		},
	}
}
