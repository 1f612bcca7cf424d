package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/openclass/quizcore/internal/quiz"
)

var (
	ErrExamNotFound = errors.New("exam not found")
	ErrUserNotFound = errors.New("user not found")
)

// SQLStore persists exams, logs, users and content nodes and implements
// report.Backend. Works against sqlite (modernc) or postgres (pgx); both
// accept $N placeholders.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutExam(ctx context.Context, e quiz.Exam) error {
	src := e.QuestionSources
	if len(src) == 0 {
		src = json.RawMessage("[]")
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO exams (id,title,data_model_version,seed,question_sources_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, data_model_version=EXCLUDED.data_model_version,
			seed=EXCLUDED.seed, question_sources_json=EXCLUDED.question_sources_json`,
		e.ID, e.Title, int(e.DataModelVersion), e.Seed, string(src), time.Now().Unix())
	return err
}

func (s *SQLStore) GetExam(ctx context.Context, id string) (quiz.Exam, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,data_model_version,seed,question_sources_json,created_at FROM exams WHERE id=$1`, id)
	var (
		e       quiz.Exam
		version int
		srcJSON string
	)
	if err := row.Scan(&e.ID, &e.Title, &version, &e.Seed, &srcJSON, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Exam{}, ErrExamNotFound
		}
		return quiz.Exam{}, err
	}
	e.DataModelVersion = quiz.DataModelVersion(version)
	e.QuestionSources = json.RawMessage(srcJSON)
	return e, nil
}

func (s *SQLStore) AddExamLog(ctx context.Context, l quiz.ExamLog) (quiz.ExamLog, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO exam_logs (id,exam_id,user_id,closed,completion_timestamp,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET closed=EXCLUDED.closed, completion_timestamp=EXCLUDED.completion_timestamp`,
		l.ID, l.ExamID, l.UserID, boolToInt(l.Closed), nullable(l.CompletionTimestamp), time.Now().UnixNano())
	return l, err
}

func (s *SQLStore) GetExamLogs(ctx context.Context, examID, userID string) ([]quiz.ExamLog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,exam_id,user_id,closed,completion_timestamp FROM exam_logs
		WHERE exam_id=$1 AND user_id=$2 ORDER BY created_at ASC, id ASC`, examID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []quiz.ExamLog
	for rows.Next() {
		var (
			l      quiz.ExamLog
			closed int
			ts     sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.ExamID, &l.UserID, &closed, &ts); err != nil {
			return nil, err
		}
		l.Closed = closed != 0
		l.CompletionTimestamp = ts.String
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLStore) AddAttemptLog(ctx context.Context, examID string, l quiz.AttemptLog) (quiz.AttemptLog, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.InteractionHistory == nil {
		l.InteractionHistory = []quiz.Interaction{}
	}
	hist, err := json.Marshal(l.InteractionHistory)
	if err != nil {
		return quiz.AttemptLog{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO attempt_logs (id,exam_id,user_id,item,content_id,correct,completion_timestamp,interaction_history_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET correct=EXCLUDED.correct,
			completion_timestamp=EXCLUDED.completion_timestamp,
			interaction_history_json=EXCLUDED.interaction_history_json`,
		l.ID, examID, l.UserID, l.Item, l.ContentID, boolToInt(l.Correct),
		nullable(l.CompletionTimestamp), string(hist), time.Now().UnixNano())
	return l, err
}

// GetAttemptLogs returns the learner's attempts for one exam, oldest first.
// Insertion order breaks timestamp ties, which the report assembler relies on.
func (s *SQLStore) GetAttemptLogs(ctx context.Context, examID, userID string) ([]quiz.AttemptLog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,user_id,item,content_id,correct,completion_timestamp,interaction_history_json FROM attempt_logs
		WHERE exam_id=$1 AND user_id=$2 ORDER BY created_at ASC, id ASC`, examID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []quiz.AttemptLog
	for rows.Next() {
		var (
			l       quiz.AttemptLog
			correct int
			ts      sql.NullString
			hist    string
		)
		if err := rows.Scan(&l.ID, &l.UserID, &l.Item, &l.ContentID, &correct, &ts, &hist); err != nil {
			return nil, err
		}
		l.Correct = correct != 0
		l.CompletionTimestamp = ts.String
		if err := json.Unmarshal([]byte(hist), &l.InteractionHistory); err != nil {
			return nil, fmt.Errorf("decode interaction history for %s: %w", l.ID, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// PutUser upserts a user; password may be empty to keep the stored hash.
func (s *SQLStore) PutUser(ctx context.Context, u quiz.User, password string) error {
	hash := ""
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hash = string(h)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (id,username,full_name,role,password_hash)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET username=EXCLUDED.username, full_name=EXCLUDED.full_name, role=EXCLUDED.role,
			password_hash=CASE WHEN EXCLUDED.password_hash='' THEN users.password_hash ELSE EXCLUDED.password_hash END`,
		u.ID, u.Username, u.FullName, u.Role, hash)
	return err
}

func (s *SQLStore) GetUser(ctx context.Context, id string) (quiz.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,username,full_name,role FROM users WHERE id=$1`, id)
	var u quiz.User
	if err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.User{}, ErrUserNotFound
		}
		return quiz.User{}, err
	}
	return u, nil
}

// Authenticate checks a username/password pair and returns the user record.
func (s *SQLStore) Authenticate(ctx context.Context, username, password string) (quiz.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,username,full_name,role,password_hash FROM users WHERE username=$1`, username)
	var (
		u    quiz.User
		hash string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Role, &hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.User{}, ErrUserNotFound
		}
		return quiz.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return quiz.User{}, errors.New("invalid credentials")
	}
	return u, nil
}

func (s *SQLStore) PutContentNode(ctx context.Context, n quiz.ContentNode) error {
	ids, err := json.Marshal(n.AssessmentIDs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO content_nodes (id,title,kind,assessment_ids_json)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, kind=EXCLUDED.kind, assessment_ids_json=EXCLUDED.assessment_ids_json`,
		n.ID, n.Title, n.Kind, string(ids))
	return err
}

// GetContentNodes fetches the nodes for the given IDs. Missing IDs are simply
// absent from the result; vanished exercises are a state the report layer
// knows how to handle.
func (s *SQLStore) GetContentNodes(ctx context.Context, ids []string) ([]quiz.ContentNode, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ph := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,title,kind,assessment_ids_json FROM content_nodes WHERE id IN (`+strings.Join(ph, ",")+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	byID := make(map[string]quiz.ContentNode, len(ids))
	for rows.Next() {
		var (
			n       quiz.ContentNode
			idsJSON string
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Kind, &idsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(idsJSON), &n.AssessmentIDs); err != nil {
			return nil, fmt.Errorf("decode assessment ids for %s: %w", n.ID, err)
		}
		byID[n.ID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// preserve request order
	out := make([]quiz.ContentNode, 0, len(byID))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
