package service

import (
	"time"

	"github.com/sakif/socialhub/internal/model"
)

// sampleUsers are the demo accounts a fresh install starts with. They all
// share the password "password123".
var sampleUsers = []model.User{
	{
		Name:     "John Doe",
		Username: "johndoe",
		Email:    "john@example.com",
		Bio:      "Web developer passionate about creating amazing user experiences.",
		Location: "San Francisco, CA",
		Avatar:   "JD",
		JoinedAt: time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC),
	},
	{
		Name:     "Jane Smith",
		Username: "janesmith",
		Email:    "jane@example.com",
		Bio:      "UI/UX Designer | Coffee enthusiast | Travel lover",
		Location: "New York, NY",
		Avatar:   "JS",
		JoinedAt: time.Date(2023, time.February, 20, 0, 0, 0, 0, time.UTC),
	},
	{
		Name:     "Mike Johnson",
		Username: "mikej",
		Email:    "mike@example.com",
		Bio:      "Full-stack developer | Tech blogger | Open source contributor",
		Location: "Austin, TX",
		Avatar:   "MJ",
		JoinedAt: time.Date(2023, time.March, 10, 0, 0, 0, 0, time.UTC),
	},
}

const samplePassword = "password123"

func seedSampleUsers(state *model.State, e *env) {
	for _, u := range sampleUsers {
		u.ID = e.newID()
		u.Password = samplePassword
		u.PostIDs = []string{}
		state.Users = append(state.Users, u)
	}
}
