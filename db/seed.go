package db

import (
	"context"
	"database/sql"
	"fmt"
)

type seedQuestion struct {
	category string
	question string
	answers  [4]string
}

var seedTemplates = []struct {
	title, description, icon string
}{
	{"Best Friends", "How well do your friends really know you?", "friends.png"},
	{"Couples", "Find out how in sync you and your partner are.", "couple.png"},
	{"Family", "Test how well your family knows your habits.", "family.png"},
}

var seedCategories = []string{"Food", "Travel", "Hobbies", "Personality"}

var seedQuestions = []seedQuestion{
	{"Food", "What is my favourite cuisine?", [4]string{"Italian", "Japanese", "Indian", "Mexican"}},
	{"Food", "Coffee or tea?", [4]string{"Coffee", "Tea", "Both", "Neither"}},
	{"Travel", "Where would I go on a dream holiday?", [4]string{"Beach", "Mountains", "City", "Countryside"}},
	{"Travel", "How do I prefer to travel?", [4]string{"Plane", "Train", "Car", "Boat"}},
	{"Hobbies", "What do I do on a free Sunday?", [4]string{"Sleep in", "Sports", "Read", "Go out with friends"}},
	{"Personality", "How do I handle stress?", [4]string{"Talk it out", "Exercise", "Eat", "Ignore it"}},
}

// SeedData populates the catalog tables. Running it twice is harmless.
func SeedData(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range seedTemplates {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO compatibility_templates (title, description, icon) VALUES ($1, $2, $3) ON CONFLICT (title) DO NOTHING`,
			t.title, t.description, t.icon,
		); err != nil {
			return fmt.Errorf("error seeding templates: %w", err)
		}
	}

	for _, c := range seedCategories {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO compatibility_questions_category (title) VALUES ($1) ON CONFLICT (title) DO NOTHING`,
			c,
		); err != nil {
			return fmt.Errorf("error seeding categories: %w", err)
		}
	}

	for _, q := range seedQuestions {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO compatibility_questions (question, category_id, answer_a, answer_b, answer_c, answer_d)
			SELECT $1, c.id, $3, $4, $5, $6
			FROM compatibility_questions_category c
			WHERE c.title = $2
			ON CONFLICT (question) DO NOTHING
		`, q.question, q.category, q.answers[0], q.answers[1], q.answers[2], q.answers[3]); err != nil {
			return fmt.Errorf("error seeding questions: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}
