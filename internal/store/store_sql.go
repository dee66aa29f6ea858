package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) Put(ctx context.Context, rec Record) error {
	rj, err := json.Marshal(rec.Result)
	if err != nil {
		return err
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id,user_id,exam_type,roll_number,candidate_name,total_score,max_score,result_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET total_score=EXCLUDED.total_score, max_score=EXCLUDED.max_score, result_json=EXCLUDED.result_json`,
		rec.ID, rec.UserID, rec.ExamType, rec.RollNumber, rec.CandidateName,
		rec.TotalScore, rec.MaxScore, string(rj), rec.CreatedAt)
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,user_id,exam_type,roll_number,candidate_name,total_score,max_score,result_json,created_at
		FROM analyses WHERE id=$1`, id)
	var rec Record
	var rj string
	err := row.Scan(&rec.ID, &rec.UserID, &rec.ExamType, &rec.RollNumber, &rec.CandidateName,
		&rec.TotalScore, &rec.MaxScore, &rj, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(rj), &rec.Result); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *SQLStore) List(ctx context.Context, userID string) ([]ListEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,exam_type,roll_number,candidate_name,total_score,max_score,created_at
		FROM analyses WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListEntry
	for rows.Next() {
		var e ListEntry
		if err := rows.Scan(&e.ID, &e.ExamType, &e.RollNumber, &e.CandidateName,
			&e.TotalScore, &e.MaxScore, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
