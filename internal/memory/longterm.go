package memory

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// #region schema

const longTermSchema = `
CREATE TABLE IF NOT EXISTS memory_records (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	kind        TEXT NOT NULL,
	text        TEXT NOT NULL,
	tags        TEXT NOT NULL DEFAULT '',
	mission_id  TEXT,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS experiences (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	mission_id  TEXT,
	context     TEXT NOT NULL,
	action      TEXT NOT NULL,
	reward      REAL NOT NULL,
	state_json  TEXT NOT NULL,
	next_json   TEXT NOT NULL,
	terminal    INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_experiences_lookup
ON experiences(context, action);
`

// timeLayout is fixed-width (no trailing-zero trimming) so the TEXT
// created_at column compares chronologically under SQL's lexicographic
// ordering. Timestamps are stored in UTC.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// #endregion schema

// #region long-term

// LongTerm is the append-only, queryable experience and event store.
// Writes come from one owner; reads may happen concurrently.
type LongTerm struct {
	db *sql.DB
}

// NewLongTerm runs migrations and returns a store over db.
func NewLongTerm(db *sql.DB) (*LongTerm, error) {
	if _, err := db.Exec(longTermSchema); err != nil {
		return nil, fmt.Errorf("migrate long-term memory: %w", err)
	}
	return &LongTerm{db: db}, nil
}

// #endregion long-term

// #region store

// Store appends an entry. An empty ID or CreatedAt is filled in.
func (m *LongTerm) Store(e Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := m.db.Exec(
		`INSERT INTO memory_records (id, kind, text, tags, mission_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.Text, strings.Join(e.Tags, ","),
		nullIfEmpty(e.MissionID), e.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("store memory record: %w", err)
	}
	return nil
}

// #endregion store

// #region search

// Query narrows a search. Zero values mean "no constraint".
type Query struct {
	Text  string
	Tag   string
	From  time.Time
	To    time.Time
	Limit int
}

type scored struct {
	entry Entry
	score float64
	seq   int64
}

// Search returns entries containing every stopword-filtered query
// token in their text or tags, ordered by relevance (query coverage of
// the entry), then recency, ties by insertion order.
func (m *LongTerm) Search(q Query) ([]Entry, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if q.Tag != "" {
		where = append(where, "(',' || tags || ',') LIKE ?")
		args = append(args, "%,"+q.Tag+",%")
	}
	if !q.From.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, q.From.UTC().Format(timeLayout))
	}
	if !q.To.IsZero() {
		where = append(where, "created_at <= ?")
		args = append(args, q.To.UTC().Format(timeLayout))
	}

	rows, err := m.db.Query(
		`SELECT seq, id, kind, text, tags, mission_id, created_at
		 FROM memory_records WHERE `+strings.Join(where, " AND "),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("search memory: %w", err)
	}
	defer rows.Close()

	queryTokens := contentTokens(q.Text)
	var matched []scored

	for rows.Next() {
		var seq int64
		var e Entry
		var kind, tags, createdStr string
		var missionID sql.NullString
		if err := rows.Scan(&seq, &e.ID, &kind, &e.Text, &tags, &missionID, &createdStr); err != nil {
			return nil, fmt.Errorf("scan memory row: %w", err)
		}
		e.Kind = Kind(kind)
		if tags != "" {
			e.Tags = strings.Split(tags, ",")
		}
		if missionID.Valid {
			e.MissionID = missionID.String
		}
		e.CreatedAt, _ = time.Parse(timeLayout, createdStr)

		score := relevance(queryTokens, e)
		if q.Text != "" && score == 0 {
			continue
		}
		matched = append(matched, scored{entry: e, score: score, seq: seq})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].score != matched[j].score {
			return matched[i].score > matched[j].score
		}
		if !matched[i].entry.CreatedAt.Equal(matched[j].entry.CreatedAt) {
			return matched[i].entry.CreatedAt.After(matched[j].entry.CreatedAt)
		}
		return matched[i].seq < matched[j].seq
	})

	limit := q.Limit
	if limit <= 0 || limit > len(matched) {
		limit = len(matched)
	}
	out := make([]Entry, 0, limit)
	for _, s := range matched[:limit] {
		out = append(out, s.entry)
	}
	return out, nil
}

// relevance returns 0 unless every query token is present in the
// entry's text or tags; matches score by what share of the entry the
// query covers, so tighter records rank first.
func relevance(queryTokens []string, e Entry) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	haystack := make(map[string]bool)
	for _, t := range contentTokens(e.Text) {
		haystack[t] = true
	}
	for _, tag := range e.Tags {
		for _, t := range contentTokens(tag) {
			haystack[t] = true
		}
	}
	for _, t := range queryTokens {
		if !haystack[t] {
			return 0
		}
	}
	return float64(len(queryTokens)) / float64(len(haystack))
}

// #endregion search

// #region prune

// Prune removes records created before the cutoff. Returns the count.
func (m *LongTerm) Prune(olderThan time.Time) (int, error) {
	res, err := m.db.Exec(
		`DELETE FROM memory_records WHERE created_at < ?`,
		olderThan.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("prune memory: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// PruneTag removes all records carrying the tag. Returns the count.
func (m *LongTerm) PruneTag(tag string) (int, error) {
	res, err := m.db.Exec(
		`DELETE FROM memory_records WHERE (',' || tags || ',') LIKE ?`,
		"%,"+tag+",%",
	)
	if err != nil {
		return 0, fmt.Errorf("prune tag %s: %w", tag, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// #endregion prune

// #region experiences

// StoreExperience persists one experience row.
func (m *LongTerm) StoreExperience(r ExperienceRow) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	terminal := 0
	if r.Terminal {
		terminal = 1
	}
	_, err := m.db.Exec(
		`INSERT INTO experiences (mission_id, context, action, reward, state_json, next_json, terminal, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(r.MissionID), r.Context, r.Action, r.Reward,
		r.StateJSON, r.NextJSON, terminal, r.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("store experience: %w", err)
	}
	return nil
}

// Experiences returns the most recent rows, optionally per mission.
func (m *LongTerm) Experiences(limit int, missionID string) ([]ExperienceRow, error) {
	query := `SELECT mission_id, context, action, reward, state_json, next_json, terminal, created_at
	          FROM experiences`
	args := []interface{}{}
	if missionID != "" {
		query += ` WHERE mission_id = ?`
		args = append(args, missionID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query experiences: %w", err)
	}
	defer rows.Close()

	var out []ExperienceRow
	for rows.Next() {
		var r ExperienceRow
		var mission sql.NullString
		var terminal int
		var createdStr string
		if err := rows.Scan(&mission, &r.Context, &r.Action, &r.Reward, &r.StateJSON, &r.NextJSON, &terminal, &createdStr); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		if mission.Valid {
			r.MissionID = mission.String
		}
		r.Terminal = terminal != 0
		r.CreatedAt, _ = time.Parse(timeLayout, createdStr)
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion experiences

// #region action-quality

// actionQualityHalfLife is the decay horizon for historical rewards.
const actionQualityHalfLife = 7.0 * 24.0 // hours

// actionQualityMinSamples guards against thin history.
const actionQualityMinSamples = 3

// ActionQuality returns the decay-weighted mean reward per action for
// a context. Actions with fewer than three samples are omitted.
func (m *LongTerm) ActionQuality(context string) (map[string]float64, error) {
	rows, err := m.db.Query(
		`SELECT action, reward, created_at FROM experiences WHERE context = ?`,
		context,
	)
	if err != nil {
		return nil, fmt.Errorf("action quality query: %w", err)
	}
	defer rows.Close()

	type accum struct {
		weightedSum float64
		totalWeight float64
		count       int
	}
	now := time.Now()
	byAction := make(map[string]*accum)

	for rows.Next() {
		var action, createdStr string
		var reward float64
		if err := rows.Scan(&action, &reward, &createdStr); err != nil {
			return nil, err
		}
		createdAt, err := time.Parse(timeLayout, createdStr)
		if err != nil {
			continue
		}
		weight := math.Exp(-now.Sub(createdAt).Hours() / actionQualityHalfLife)

		a, ok := byAction[action]
		if !ok {
			a = &accum{}
			byAction[action] = a
		}
		a.weightedSum += reward * weight
		a.totalWeight += weight
		a.count++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for action, a := range byAction {
		if a.count < actionQualityMinSamples || a.totalWeight == 0 {
			continue
		}
		out[action] = a.weightedSum / a.totalWeight
	}
	return out, nil
}

// #endregion action-quality

// #region helpers

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
