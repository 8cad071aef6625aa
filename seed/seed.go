// Package seed loads development fixture data: two users plus enough tasks
// to exercise pagination and ownership isolation by hand.
package seed

import (
	"fmt"

	"task-service/auth"
	"task-service/models"

	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

type taskFixture struct {
	title       string
	description string
	status      string
}

var aliceTasks = []taskFixture{
	{"Setup Database", "Create the SQLite schema and run migrations", models.StatusDone},
	{"Build API", "Wire up the register, login and task routes", models.StatusDone},
	{"Add Pagination", "Page the task list five items at a time", models.StatusInProgress},
	{"Harden Auth", "Reject expired and tampered tokens", models.StatusPending},
	{"Write Tests", "Cover pagination and ownership isolation", models.StatusPending},
	{"Deploy App", "Ship the service behind a reverse proxy", models.StatusPending},
	{"Fix Bugs", "Resolve issue with pagination", models.StatusPending},
}

var bobTasks = []taskFixture{
	{"Buy Groceries", "Milk, Bread, Eggs", models.StatusPending},
	{"Walk the Dog", "Take Fido to the park", models.StatusInProgress},
}

// Run wipes users and tasks and inserts the fixtures. Both seeded accounts
// use the password "password123".
func Run(db *sqlx.DB) error {
	logger.Info("Starting seed process")

	// Clear existing data and reset id counters.
	for _, stmt := range []string{
		"DELETE FROM tasks",
		"DELETE FROM users",
		"DELETE FROM sqlite_sequence WHERE name IN ('users', 'tasks')",
	} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("clearing database: %w", err)
		}
	}
	logger.Info("Database cleared")

	password, err := auth.HashPassword("password123")
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	aliceID, err := insertUser(db, "Alice Admin", "alice@example.com", password)
	if err != nil {
		return err
	}
	bobID, err := insertUser(db, "Bob Builder", "bob@example.com", password)
	if err != nil {
		return err
	}
	logger.Info("Created users", zap.Int("alice_id", aliceID), zap.Int("bob_id", bobID))

	// Seven tasks for Alice (two pages at the default limit), two for Bob
	// (isolation fixture).
	if err := insertTasks(db, aliceID, aliceTasks); err != nil {
		return err
	}
	if err := insertTasks(db, bobID, bobTasks); err != nil {
		return err
	}

	logger.Info("Seeded tasks",
		zap.Int("alice_tasks", len(aliceTasks)),
		zap.Int("bob_tasks", len(bobTasks)))
	return nil
}

func insertUser(db *sqlx.DB, name, email, passwordHash string) (int, error) {
	result, err := db.Exec(
		"INSERT INTO users (name, email, password) VALUES (?, ?, ?)",
		name, email, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("inserting user %s: %w", email, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func insertTasks(db *sqlx.DB, userID int, fixtures []taskFixture) error {
	for _, f := range fixtures {
		_, err := db.Exec(
			"INSERT INTO tasks (user_id, title, description, status) VALUES (?, ?, ?, ?)",
			userID, f.title, f.description, f.status)
		if err != nil {
			return fmt.Errorf("inserting task %q: %w", f.title, err)
		}
	}
	return nil
}
