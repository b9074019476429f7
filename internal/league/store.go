package league

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new LeagueStore.
func New(db *sql.DB) LeagueStore {
	return &store{
		db: db,
	}
}

func (s *store) CreatePlayer(playerID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Rating and counters take their schema defaults (1500 / zeroes).
	_, err := s.db.Exec(
		"INSERT INTO players (id, name, created_at) VALUES (?, ?, ?)",
		playerID, name, time.Now().Unix(),
	)
	if err != nil {
		log.Error("Failed to create player", "error", err, "playerID", playerID)
		return err
	}
	log.Info("Created player", "playerID", playerID, "name", name)
	return nil
}

func (s *store) GetPlayer(playerID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, rating, matches_played, wins, losses, avatar_url, created_at
		FROM players WHERE id = ?`, playerID)

	player, err := scanPlayer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		log.Error("Failed to query player", "error", err, "playerID", playerID)
		return nil, fmt.Errorf("database error: %w", err)
	}
	return player, nil
}

func (s *store) GetPlayers(playerIDs []string) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(playerIDs) == 0 {
		return []Player{}, nil
	}

	placeholders := strings.Repeat("?,", len(playerIDs)-1) + "?"
	query := fmt.Sprintf(`
		SELECT id, name, rating, matches_played, wins, losses, avatar_url, created_at
		FROM players WHERE id IN (%s)`, placeholders)

	rows, err := s.db.Query(query, ToAnySlice(playerIDs)...)
	if err != nil {
		log.Error("Failed to query players", "error", err)
		return nil, err
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, *player)
	}
	return players, rows.Err()
}

func (s *store) IsKnownPlayer(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return false
	}
	return exists
}

// GetRankings retrieves all players ordered for the rankings page. Rating is
// the primary key; the win counters break ties between the 1500-rated bulk.
func (s *store) GetRankings() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, rating, matches_played, wins, losses, avatar_url, created_at
		FROM players ORDER BY rating DESC, wins DESC, name ASC`)
	if err != nil {
		log.Error("Failed to query rankings", "error", err)
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, *player)
	}
	return players, rows.Err()
}

func (s *store) CreateUser(user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO users (id, email, password_hash, player_id, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Email, user.PasswordHash, user.PlayerID, user.CreatedAt,
	)
	if err != nil {
		log.Error("Failed to create user", "error", err, "email", user.Email)
		return err
	}
	return nil
}

// CreateUserWithPlayer creates a player profile and its user account in a
// single transaction. A signup that loses a race on the unique email leaves
// no orphan player behind.
func (s *store) CreateUserWithPlayer(user User, playerName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(
		"INSERT INTO players (id, name, created_at) VALUES (?, ?, ?)",
		user.PlayerID, playerName, user.CreatedAt,
	); err != nil {
		tx.Rollback()
		log.Error("Failed to create player for signup", "error", err, "email", user.Email)
		return err
	}

	if _, err := tx.Exec(
		"INSERT INTO users (id, email, password_hash, player_id, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Email, user.PasswordHash, user.PlayerID, user.CreatedAt,
	); err != nil {
		tx.Rollback()
		log.Error("Failed to create user for signup", "error", err, "email", user.Email)
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Created user account", "email", user.Email, "playerID", user.PlayerID)
	return nil
}

func (s *store) GetUserByEmail(email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var user User
	err := s.db.QueryRow(
		"SELECT id, email, password_hash, player_id, created_at FROM users WHERE email = ?",
		email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.PlayerID, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		log.Error("Failed to query user by email", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

// RecordMatch persists a match and updates every participant's counters in a
// single transaction. Counter updates are relative (x = x + 1), so two
// concurrent submissions touching the same player cannot lose an increment.
func (s *store) RecordMatch(match *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	setsJSON, err := json.Marshal(match.Sets)
	if err != nil {
		tx.Rollback()
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO matches (id, match_date, team_a_player1_id, team_a_player2_id, team_b_player1_id, team_b_player2_id, sets_json, winner_team, match_type, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		match.ID, match.MatchDate,
		match.TeamAPlayer1ID, match.TeamAPlayer2ID, match.TeamBPlayer1ID, match.TeamBPlayer2ID,
		setsJSON, string(match.WinnerTeam), match.MatchType, match.Notes, match.CreatedAt,
	)
	if err != nil {
		tx.Rollback()
		return err
	}

	winners := match.SideIDs(match.WinnerTeam)
	won := map[string]bool{winners[0]: true, winners[1]: true}

	for _, playerID := range match.ParticipantIDs() {
		winInc, lossInc := 0, 1
		if won[playerID] {
			winInc, lossInc = 1, 0
		}
		res, err := tx.Exec(`
			UPDATE players
			SET matches_played = matches_played + 1,
			    wins = wins + ?,
			    losses = losses + ?
			WHERE id = ?`, winInc, lossInc, playerID)
		if err != nil {
			tx.Rollback()
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return err
		}
		if affected != 1 {
			tx.Rollback()
			return fmt.Errorf("unknown player %q in match %s", playerID, match.ID)
		}
	}

	if err := upsertPartnerPairs(tx, match); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug("Persisted match", "matchID", match.ID, "winner", match.WinnerTeam)
	return nil
}

// upsertPartnerPairs bumps the partner record for both pairings, in both
// directions, so partner stats can be read per player without a self-join.
func upsertPartnerPairs(tx *sql.Tx, match *Match) error {
	stmt, err := tx.Prepare(`
		INSERT INTO partner_stats (player_id, partner_id, matches_played, wins, losses)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(player_id, partner_id) DO UPDATE SET
			matches_played = matches_played + 1,
			wins = wins + excluded.wins,
			losses = losses + excluded.losses;
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, side := range []Side{SideA, SideB} {
		pair := match.SideIDs(side)
		winInc, lossInc := 0, 1
		if side == match.WinnerTeam {
			winInc, lossInc = 1, 0
		}
		for _, dir := range [][2]string{{pair[0], pair[1]}, {pair[1], pair[0]}} {
			if _, err := stmt.Exec(dir[0], dir[1], winInc, lossInc); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetMatch retrieves a single match by id.
func (s *store) GetMatch(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, match_date, team_a_player1_id, team_a_player2_id, team_b_player1_id, team_b_player2_id, sets_json, winner_team, match_type, notes, created_at
		FROM matches WHERE id = ?`, matchID)

	match, err := scanMatch(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		log.Error("Failed to query match", "error", err, "matchID", matchID)
		return nil, fmt.Errorf("database error: %w", err)
	}
	return match, nil
}

// GetRecentMatches retrieves the most recently recorded matches.
func (s *store) GetRecentMatches(limit int) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, match_date, team_a_player1_id, team_a_player2_id, team_b_player1_id, team_b_player2_id, sets_json, winner_team, match_type, notes, created_at
		FROM matches ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		log.Error("Failed to query recent matches", "error", err)
		return nil, err
	}
	defer rows.Close()

	return collectMatches(rows)
}

// GetPlayerMatches retrieves the most recent matches the player took part
// in, in any of the four slots.
func (s *store) GetPlayerMatches(playerID string, limit int) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, match_date, team_a_player1_id, team_a_player2_id, team_b_player1_id, team_b_player2_id, sets_json, winner_team, match_type, notes, created_at
		FROM matches
		WHERE team_a_player1_id = ? OR team_a_player2_id = ? OR team_b_player1_id = ? OR team_b_player2_id = ?
		ORDER BY created_at DESC LIMIT ?`,
		playerID, playerID, playerID, playerID, limit)
	if err != nil {
		log.Error("Failed to query player matches", "error", err, "playerID", playerID)
		return nil, err
	}
	defer rows.Close()

	return collectMatches(rows)
}

func (s *store) GetPartnerStats(playerID string) ([]PartnerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT ps.partner_id, p.name, ps.matches_played, ps.wins, ps.losses
		FROM partner_stats ps
		JOIN players p ON ps.partner_id = p.id
		WHERE ps.player_id = ?
		ORDER BY ps.matches_played DESC, p.name ASC`, playerID)
	if err != nil {
		log.Error("Failed to query partner stats", "error", err, "playerID", playerID)
		return nil, err
	}
	defer rows.Close()

	stats := []PartnerStats{}
	for rows.Next() {
		var stat PartnerStats
		if err := rows.Scan(&stat.PartnerID, &stat.PartnerName, &stat.MatchesPlayed, &stat.Wins, &stat.Losses); err != nil {
			log.Error("Failed to scan partner stats row", "error", err)
			continue
		}
		if stat.MatchesPlayed > 0 {
			stat.WinPercentage = (float64(stat.Wins) / float64(stat.MatchesPlayed)) * 100
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"partner_stats", "matches", "users", "players"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "error", err, "table", table)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

// scanPlayer scans a single player row.
func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	var avatarURL sql.NullString
	err := scanner.Scan(&p.ID, &p.Name, &p.Rating, &p.MatchesPlayed, &p.Wins, &p.Losses, &avatarURL, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if avatarURL.Valid {
		p.AvatarURL = &avatarURL.String
	}
	return &p, nil
}

// scanMatch scans a single match row.
func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var match Match
	var setsJSON string
	var notes, winner sql.NullString

	err := scanner.Scan(
		&match.ID, &match.MatchDate,
		&match.TeamAPlayer1ID, &match.TeamAPlayer2ID, &match.TeamBPlayer1ID, &match.TeamBPlayer2ID,
		&setsJSON, &winner, &match.MatchType, &notes, &match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	match.WinnerTeam = Side(winner.String)
	match.Notes = notes.String

	if setsJSON != "" {
		if err := json.Unmarshal([]byte(setsJSON), &match.Sets); err != nil {
			log.Error("Failed to unmarshal sets_json", "error", err, "matchID", match.ID)
		}
	}
	if match.Sets == nil {
		match.Sets = []SetScore{}
	}

	return &match, nil
}

func collectMatches(rows *sql.Rows) ([]*Match, error) {
	var matches []*Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func ToAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
