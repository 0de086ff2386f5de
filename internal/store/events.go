package store

import (
	"context"
	"database/sql"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int // max results (0 = unlimited)
}

// LLMRequestEventData captures the data for a single completion request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored completion request event.
type LLMEventRecord struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStat aggregates token usage per purpose label.
type LLMUsageStat struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int
}

// LLMModelUsage aggregates token usage per served model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// QuizEventData captures the result of one finished quiz session.
type QuizEventData struct {
	Source              string // file the quiz was generated from
	Questions           int
	Correct             int
	DurationSecs        int
	TimePerQuestionSecs int
}

// QuizEventRecord is a stored quiz result.
type QuizEventRecord struct {
	ID        int
	Timestamp time.Time
	QuizEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records a completion API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendQuizResult records a finished quiz session.
	AppendQuizResult(ctx context.Context, data QuizEventData) error

	// QueryLLMEvents returns completion events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns a single event by ID, or nil if not found.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates token usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStat, error)

	// LLMUsageByModel aggregates token usage grouped by served model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// QueryQuizResults returns quiz results, newest first.
	QueryQuizResults(ctx context.Context, opts QueryOpts) ([]QuizEventRecord, error)
}

// eventRepo implements EventRepo on plain database/sql.
type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	query := `INSERT INTO llm_events
	          (provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs,
		data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody,
	)
	return err
}

func (r *eventRepo) AppendQuizResult(ctx context.Context, data QuizEventData) error {
	query := `INSERT INTO quiz_events
	          (source, questions, correct, duration_secs, time_per_question_secs)
	          VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		data.Source, data.Questions, data.Correct,
		data.DurationSecs, data.TimePerQuestionSecs,
	)
	return err
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	query := `SELECT id, created_at, provider, model, purpose, input_tokens, output_tokens,
	          latency_ms, success, error_message, request_body, response_body
	          FROM llm_events ORDER BY id DESC`
	args := []any{}
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []LLMEventRecord
	for rows.Next() {
		var e LLMEventRecord
		if err := rows.Scan(
			&e.ID, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs,
			&e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error) {
	query := `SELECT id, created_at, provider, model, purpose, input_tokens, output_tokens,
	          latency_ms, success, error_message, request_body, response_body
	          FROM llm_events WHERE id = ?`

	var e LLMEventRecord
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs,
		&e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStat, error) {
	query := `SELECT purpose, COUNT(*), COALESCE(SUM(input_tokens), 0),
	          COALESCE(SUM(output_tokens), 0), COALESCE(CAST(AVG(latency_ms) AS INTEGER), 0)
	          FROM llm_events GROUP BY purpose ORDER BY COUNT(*) DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []LLMUsageStat
	for rows.Next() {
		var s LLMUsageStat
		if err := rows.Scan(&s.Purpose, &s.Calls, &s.InputTokens, &s.OutputTokens, &s.AvgLatencyMs); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	query := `SELECT model, COUNT(*), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0)
	          FROM llm_events WHERE success = 1 GROUP BY model ORDER BY COUNT(*) DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usage []LLMModelUsage
	for rows.Next() {
		var u LLMModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

func (r *eventRepo) QueryQuizResults(ctx context.Context, opts QueryOpts) ([]QuizEventRecord, error) {
	query := `SELECT id, created_at, source, questions, correct, duration_secs, time_per_question_secs
	          FROM quiz_events ORDER BY id DESC`
	args := []any{}
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []QuizEventRecord
	for rows.Next() {
		var q QuizEventRecord
		if err := rows.Scan(
			&q.ID, &q.Timestamp, &q.Source, &q.Questions, &q.Correct,
			&q.DurationSecs, &q.TimePerQuestionSecs,
		); err != nil {
			return nil, err
		}
		results = append(results, q)
	}
	return results, rows.Err()
}
