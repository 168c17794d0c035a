package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"vk-match-bot/internal/config"
	"vk-match-bot/internal/constants"
	apperrors "vk-match-bot/internal/errors"
	"vk-match-bot/internal/models"
)

// ConnectDB opens the PostgreSQL connection pool
func ConnectDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Repository is the persistence facade over users, search candidates,
// favorites and the black list
type Repository struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewRepository creates a new repository
func NewRepository(db *sqlx.DB, logger *logrus.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// InitSchema creates the database structure if it does not exist yet
func (r *Repository) InitSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			vk_id BIGINT PRIMARY KEY,
			first_name VARCHAR(255) NOT NULL,
			last_name VARCHAR(255) NOT NULL,
			city VARCHAR(255) NOT NULL,
			age INT NOT NULL,
			sex INT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS search_users (
			vk_id BIGINT PRIMARY KEY,
			first_name VARCHAR(255) NOT NULL,
			last_name VARCHAR(255) NOT NULL,
			city VARCHAR(255) NOT NULL,
			age INT NOT NULL,
			sex INT NOT NULL,
			last_updated VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS favorites (
			search_user_id BIGINT REFERENCES search_users(vk_id),
			user_id BIGINT REFERENCES users(vk_id),
			added_at VARCHAR,
			CONSTRAINT favorites_pk PRIMARY KEY (search_user_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS black_list (
			id SERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(vk_id),
			black_user_id BIGINT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return &apperrors.PersistenceError{Op: "init schema", Err: err}
		}
	}

	r.logger.Info("Database structure is ready")
	return nil
}

// UserExists reports whether the messaging-side user is persisted
func (r *Repository) UserExists(ctx context.Context, vkID int64) (bool, error) {
	return r.exists(ctx, `SELECT TRUE FROM users WHERE vk_id = $1`, "check user", vkID)
}

// CandidateExists reports whether the candidate is persisted
func (r *Repository) CandidateExists(ctx context.Context, vkID int64) (bool, error) {
	return r.exists(ctx, `SELECT TRUE FROM search_users WHERE vk_id = $1`, "check candidate", vkID)
}

// EnsureUser persists the messaging-side user if not already present
func (r *Repository) EnsureUser(ctx context.Context, c models.Candidate) error {
	exists, err := r.UserExists(ctx, c.VkID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (vk_id, first_name, last_name, city, age, sex)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.VkID, c.FirstName, c.LastName, c.City, c.Age, c.Sex)
	if err != nil {
		return &apperrors.PersistenceError{Op: "insert user", Err: err}
	}

	r.logger.Debugf("Persisted user %d", c.VkID)
	return nil
}

// EnsureCandidate persists a search candidate, refreshing an existing row
// with the attributes just returned by the directory
func (r *Repository) EnsureCandidate(ctx context.Context, c models.Candidate) error {
	exists, err := r.CandidateExists(ctx, c.VkID)
	if err != nil {
		return err
	}
	if exists {
		return r.UpdateCandidate(ctx, c)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO search_users (vk_id, first_name, last_name, city, age, sex, last_updated)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.VkID, c.FirstName, c.LastName, c.City, c.Age, c.Sex,
		time.Now().Format(constants.TimestampFormat))
	if err != nil {
		return &apperrors.PersistenceError{Op: "insert candidate", Err: err}
	}

	r.logger.Debugf("Persisted candidate %d", c.VkID)
	return nil
}

// UpdateCandidate refreshes a candidate's cached attributes and last_updated
func (r *Repository) UpdateCandidate(ctx context.Context, c models.Candidate) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE search_users
		 SET first_name = $2, last_name = $3, city = $4, age = $5, sex = $6, last_updated = $7
		 WHERE vk_id = $1`,
		c.VkID, c.FirstName, c.LastName, c.City, c.Age, c.Sex,
		time.Now().Format(constants.TimestampFormat))
	if err != nil {
		return &apperrors.PersistenceError{Op: "update candidate", Err: err}
	}
	return nil
}

// IsFavorite reports whether the (user, candidate) favorite pair exists
func (r *Repository) IsFavorite(ctx context.Context, userID, candidateID int64) (bool, error) {
	return r.exists(ctx,
		`SELECT TRUE FROM favorites WHERE search_user_id = $1 AND user_id = $2`,
		"check favorite", candidateID, userID)
}

// AddFavorite inserts the favorite relation, failing with
// AlreadyFavoriteError when the pair exists
func (r *Repository) AddFavorite(ctx context.Context, userID, candidateID int64) error {
	exists, err := r.IsFavorite(ctx, userID, candidateID)
	if err != nil {
		return err
	}
	if exists {
		return &apperrors.AlreadyFavoriteError{UserID: userID, CandidateID: candidateID}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO favorites (search_user_id, user_id, added_at) VALUES ($1, $2, $3)`,
		candidateID, userID, time.Now().Format(constants.TimestampFormat))
	if err != nil {
		return &apperrors.PersistenceError{Op: "insert favorite", Err: err}
	}

	r.logger.Infof("User %d added candidate %d to favorites", userID, candidateID)
	return nil
}

// RemoveFavorite deletes the favorite relation
func (r *Repository) RemoveFavorite(ctx context.Context, userID, candidateID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE search_user_id = $1 AND user_id = $2`,
		candidateID, userID)
	if err != nil {
		return &apperrors.PersistenceError{Op: "delete favorite", Err: err}
	}
	return nil
}

// IsBlocked reports whether the candidate is on the user's black list
func (r *Repository) IsBlocked(ctx context.Context, userID, candidateID int64) (bool, error) {
	return r.exists(ctx,
		`SELECT TRUE FROM black_list WHERE user_id = $1 AND black_user_id = $2`,
		"check black list", userID, candidateID)
}

// AddToBlackList inserts the block relation, failing with
// AlreadyBlockedError when the pair exists
func (r *Repository) AddToBlackList(ctx context.Context, userID, candidateID int64) error {
	exists, err := r.IsBlocked(ctx, userID, candidateID)
	if err != nil {
		return err
	}
	if exists {
		return &apperrors.AlreadyBlockedError{UserID: userID, CandidateID: candidateID}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO black_list (user_id, black_user_id) VALUES ($1, $2)`,
		userID, candidateID)
	if err != nil {
		return &apperrors.PersistenceError{Op: "insert black list", Err: err}
	}

	r.logger.Infof("User %d blocked candidate %d", userID, candidateID)
	return nil
}

// ListFavorites returns the user's favorites as profile links with names
func (r *Repository) ListFavorites(ctx context.Context, userID int64) ([]models.FavoriteEntry, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT vk_id, first_name, last_name FROM search_users
		 WHERE vk_id IN (SELECT search_user_id FROM favorites WHERE user_id = $1)`,
		userID)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list favorites", Err: err}
	}
	defer rows.Close()

	var entries []models.FavoriteEntry
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.VkID, &c.FirstName, &c.LastName); err != nil {
			return nil, &apperrors.PersistenceError{Op: "list favorites", Err: err}
		}
		entries = append(entries, models.FavoriteEntry{
			ProfileURL:  c.ProfileURL(),
			DisplayName: c.DisplayName(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.PersistenceError{Op: "list favorites", Err: err}
	}

	return entries, nil
}

// ListBlocked returns the set of candidate ids blocked by the user
func (r *Repository) ListBlocked(ctx context.Context, userID int64) (map[int64]bool, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids,
		`SELECT black_user_id FROM black_list WHERE user_id = $1`, userID)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list black list", Err: err}
	}

	blocked := make(map[int64]bool, len(ids))
	for _, id := range ids {
		blocked[id] = true
	}
	return blocked, nil
}

// exists runs a boolean existence predicate
func (r *Repository) exists(ctx context.Context, query, op string, args ...interface{}) (bool, error) {
	var found bool
	err := r.db.GetContext(ctx, &found, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, &apperrors.PersistenceError{Op: op, Err: err}
	}
	return found, nil
}
