package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtside/matchpoint/internal/database"
	"github.com/courtside/matchpoint/internal/league"
	"github.com/courtside/matchpoint/internal/recorder"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a local database with demo players, accounts and a season of
// matches so the app has something to show out of the box.
func main() {
	log.Info("Starting database seeder...")

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "matchpoint.db"
	}
	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}

	db, teardown, err := database.InitDB(dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"), migrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()
	defer db.Close()

	store := league.New(db)

	names := []string{
		"Anna Mork", "Ben Holm", "Carla Juhl", "David Lund",
		"Eva Skov", "Finn Bak", "Greta Krog", "Henrik Dam",
	}

	playerIDs := make([]string, 0, len(names))
	for i, name := range names {
		playerID := uuid.NewString()
		if err := store.CreatePlayer(playerID, name); err != nil {
			log.Fatalf("Failed to create player %s: %s", name, err)
		}
		playerIDs = append(playerIDs, playerID)

		hash, _ := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
		user := league.User{
			ID:           uuid.NewString(),
			Email:        fmt.Sprintf("demo%d@matchpoint.local", i+1),
			PasswordHash: string(hash),
			PlayerID:     playerID,
			CreatedAt:    time.Now().Unix(),
		}
		if err := store.CreateUser(user); err != nil {
			log.Fatalf("Failed to create user for %s: %s", name, err)
		}
	}
	log.Info("Created demo players and accounts", "count", len(playerIDs))

	const numMatches = 40
	for i := 0; i < numMatches; i++ {
		perm := rand.Perm(len(playerIDs))[:4]
		matchTime := time.Now().Add(-time.Duration(rand.Intn(180*24)) * time.Hour)

		sets := make([]league.SetScore, 2+rand.Intn(2))
		for j := range sets {
			if rand.Intn(2) == 0 {
				sets[j] = league.SetScore{TeamA: 6, TeamB: rand.Intn(5)}
			} else {
				sets[j] = league.SetScore{TeamA: rand.Intn(5), TeamB: 6}
			}
		}

		match := &league.Match{
			ID:             uuid.NewString(),
			MatchDate:      matchTime.Format("2006-01-02"),
			TeamAPlayer1ID: playerIDs[perm[0]],
			TeamAPlayer2ID: playerIDs[perm[1]],
			TeamBPlayer1ID: playerIDs[perm[2]],
			TeamBPlayer2ID: playerIDs[perm[3]],
			Sets:           sets,
			WinnerTeam:     recorder.DeriveWinner(sets),
			MatchType:      "regular",
			CreatedAt:      matchTime.Unix(),
		}
		if err := store.RecordMatch(match); err != nil {
			log.Fatalf("Failed to record match: %s", err)
		}
	}

	log.Info("Seeding complete", "players", len(playerIDs), "matches", numMatches)
}
