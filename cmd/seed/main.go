// Command milan-seed loads the demo profiles used to populate discovery and
// drive demo activity. Running it twice is safe: existing phone numbers are
// skipped.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milanapp/milan-backend/internal/config"
	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/infrastructure/database"
	"github.com/milanapp/milan-backend/internal/migrate"
	"github.com/milanapp/milan-backend/internal/repository/postgres"
)

type seedProfile struct {
	phone     string
	name      string
	gender    domain.Gender
	age       int
	bio       string
	interests []string
	images    []string
	state     string
	city      string
}

var seedProfiles = []seedProfile{
	{
		phone:  "+15550101",
		name:   "Valentina",
		gender: domain.GenderWomen,
		age:    24,
		bio:    "Architect in the making. Love to travel and explore new cultures.",
		interests: []string{
			"Travel", "Architecture", "Design", "Art",
		},
		images: []string{
			"https://images.unsplash.com/photo-1524504388940-b1c1722653e1?auto=format&fit=crop&w=800&q=80",
			"https://images.unsplash.com/photo-1517841905240-472988babdf9?auto=format&fit=crop&w=800&q=80",
		},
		state: "Maharashtra",
		city:  "Mumbai",
	},
	{
		phone:  "+15550102",
		name:   "Maya",
		gender: domain.GenderWomen,
		age:    26,
		bio:    "Digital nomad & coffee enthusiast. I love hiking, reading sci-fi, and trying new cuisines.",
		interests: []string{
			"Hiking", "Coffee", "Sci-Fi", "Foodie",
		},
		images: []string{
			"https://images.unsplash.com/photo-1494790108377-be9c29b29330?auto=format&fit=crop&w=800&q=80",
			"https://images.unsplash.com/photo-1534528741775-53994a69daeb?auto=format&fit=crop&w=800&q=80",
		},
		state: "Karnataka",
		city:  "Bengaluru",
	},
	{
		phone:  "+15550103",
		name:   "Amelia",
		gender: domain.GenderWomen,
		age:    23,
		bio:    "Bookworm and sunset lover. Always down for a deep conversation.",
		interests: []string{
			"Reading", "Writing", "Nature", "Philosophy",
		},
		images: []string{
			"https://images.unsplash.com/photo-1517841905240-472988babdf9?auto=format&fit=crop&w=800&q=80",
			"https://images.unsplash.com/photo-1529626455594-4ff0802cfb7e?auto=format&fit=crop&w=800&q=80",
		},
		state: "Delhi",
		city:  "New Delhi",
	},
	{
		phone:  "+15550104",
		name:   "Elena",
		gender: domain.GenderWomen,
		age:    25,
		bio:    "Fitness junkie and dog mom. Let's go for a run!",
		interests: []string{
			"Fitness", "Dogs", "Running", "Health",
		},
		images: []string{
			"https://images.unsplash.com/photo-1531746020798-e6953c6e8e04?auto=format&fit=crop&w=800&q=80",
		},
		state: "Maharashtra",
		city:  "Pune",
	},
	{
		phone:  "+15550105",
		name:   "Sophia",
		gender: domain.GenderWomen,
		age:    27,
		bio:    "Musician and dreamer. Music is my life.",
		interests: []string{
			"Music", "Guitar", "Concerts", "Vinyl",
		},
		images: []string{
			"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?auto=format&fit=crop&w=800&q=80",
		},
		state: "Telangana",
		city:  "Hyderabad",
	},
	{
		phone:  "+15550106",
		name:   "Liam",
		gender: domain.GenderMen,
		age:    28,
		bio:    "Tech entrepreneur and surfer. Chasing waves and startups.",
		interests: []string{
			"Tech", "Surfing", "Startups", "Travel",
		},
		images: []string{
			"https://images.unsplash.com/photo-1500648767791-00dcc994a43e?auto=format&fit=crop&w=800&q=80",
		},
		state: "Karnataka",
		city:  "Bengaluru",
	},
	{
		phone:  "+15550107",
		name:   "Noah",
		gender: domain.GenderMen,
		age:    26,
		bio:    "Photographer and adventurer. Capturing moments.",
		interests: []string{
			"Photography", "Adventure", "Hiking", "Cameras",
		},
		images: []string{
			"https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?auto=format&fit=crop&w=800&q=80",
		},
		state: "Maharashtra",
		city:  "Mumbai",
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := migrate.Up(ctx, db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	repo := postgres.NewProfileRepository(db)

	created := 0
	for _, s := range seedProfiles {
		bio := s.bio
		p := &domain.Profile{
			ID:            uuid.New(),
			PhoneNumber:   s.phone,
			Name:          s.name,
			Gender:        s.gender,
			Age:           s.age,
			Bio:           &bio,
			Interests:     s.interests,
			ProfileImages: s.images,
			State:         s.state,
			City:          s.city,
			PrefGender:    domain.PrefEveryone,
			PrefAgeMin:    domain.DefaultPrefAgeMin,
			PrefAgeMax:    domain.DefaultPrefAgeMax,
			ExpandSearch:  true,
			UserType:      domain.UserTypeDemo,
		}
		if err := repo.Create(ctx, p); err != nil {
			if errors.Is(err, domain.ErrUserAlreadyExists) {
				logger.Info("demo profile already present, skipping",
					zap.String("name", s.name))
				continue
			}
			logger.Fatal("failed to create demo profile",
				zap.String("name", s.name), zap.Error(err))
		}
		created++
	}

	logger.Info("seeding complete", zap.Int("created", created))
}
