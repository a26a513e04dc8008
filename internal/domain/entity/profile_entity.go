package entity

import "time"

// General holds the personal-data section of a profile.
type General struct {
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activity_level"`
}

// Nutrition holds the macro targets section of a profile.
type Nutrition struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Fat      int `json:"fat"`
	Carbs    int `json:"carbs"`
}

// Profile is the per-user fitness document. Username references users
// and doubles as the profile id, matching the account it belongs to.
type Profile struct {
	Username  string
	General   General
	Goals     []string
	Nutrition Nutrition
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultProfile returns a fresh profile with the application defaults
// filled in for the given user.
func DefaultProfile(username, displayName string) *Profile {
	return &Profile{
		Username: username,
		General: General{
			Name:          displayName,
			Age:           30,
			Weight:        60,
			Height:        165,
			Gender:        "Male",
			ActivityLevel: "Moderately Active",
		},
		Goals: []string{"Muscle Gain"},
		Nutrition: Nutrition{
			Calories: 2000,
			Protein:  140,
			Fat:      20,
			Carbs:    100,
		},
	}
}
