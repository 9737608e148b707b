// Package storage keeps the history of analysis runs in SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/floatsim/internal/model"
)

var (
	ErrNotFound  = errors.New("storage: run not found")
	ErrAmbiguous = errors.New("storage: run id prefix is ambiguous")
)

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is everything persisted about one design analysis.
type Run struct {
	ID          string
	Design      string
	Source      string
	Digest      string
	CreatedAt   time.Time
	Elapsed     time.Duration
	Frequencies model.Frequencies
	Statics     []model.Statics
	Modes       []model.Modes
	Cases       []model.CaseResult
	Diagnostics []model.Diagnostic
}

// NumPlatforms returns the platform count recorded for the run.
func (r *Run) NumPlatforms() int {
	n := len(r.Statics)
	if len(r.Modes) > n {
		n = len(r.Modes)
	}
	for _, c := range r.Cases {
		if len(c.Platforms) > n {
			n = len(c.Platforms)
		}
	}
	return n
}

// Summary is one row of the run listing.
type Summary struct {
	ID          string
	Design      string
	Source      string
	CreatedAt   time.Time
	Elapsed     time.Duration
	Platforms   int
	Cases       int
	Diagnostics int
}

type Store struct {
	db *sql.DB
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists run and returns its id. A new id is assigned when run.ID is
// empty.
func (s *Store) Save(ctx context.Context, run *Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	freqs, err := json.Marshal(run.Frequencies)
	if err != nil {
		return "", fmt.Errorf("marshal frequencies: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, design, source, digest, created_at, elapsed_ms, platforms, frequencies)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Design, run.Source, run.Digest,
		run.CreatedAt.UTC().Format(timeLayout), run.Elapsed.Milliseconds(),
		run.NumPlatforms(), string(freqs),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for p, st := range run.Statics {
		offset, err := json.Marshal(st.Offset)
		if err != nil {
			return "", err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO statics (run_id, platform, mass, displacement, offset, iterations) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, p, st.Mass, st.Displacement, string(offset), st.Iterations,
		)
		if err != nil {
			return "", fmt.Errorf("insert statics: %w", err)
		}
	}

	for p, m := range run.Modes {
		for k := range m.Frequencies {
			shape, err := json.Marshal(m.Shapes[k])
			if err != nil {
				return "", err
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO modes (run_id, platform, mode, frequency, dominant, shape) VALUES (?, ?, ?, ?, ?, ?)`,
				run.ID, p, k, m.Frequencies[k], int(m.Dominant[k]), string(shape),
			)
			if err != nil {
				return "", fmt.Errorf("insert mode: %w", err)
			}
		}
	}

	if err := insertCases(ctx, tx, run); err != nil {
		return "", err
	}

	for i, d := range run.Diagnostics {
		msg := ""
		if d.Err != nil {
			msg = d.Err.Error()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO diagnostics (run_id, seq, stage, case_index, case_name, message, error) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, d.Stage, d.Case.Index, d.Case.Name, d.Message, msg,
		)
		if err != nil {
			return "", fmt.Errorf("insert diagnostic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return run.ID, nil
}

func insertCases(ctx context.Context, tx *sql.Tx, run *Run) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO responses (run_id, case_index, platform, dof, freq_index, re, im) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare responses: %w", err)
	}
	defer stmt.Close()

	for _, c := range run.Cases {
		for p, resp := range c.Platforms {
			std, err := json.Marshal(resp.StdDev)
			if err != nil {
				return err
			}
			mean, err := json.Marshal(resp.MeanOffset)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO cases (run_id, case_index, name, platform, std_dev, mean_offset, iterations) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				run.ID, c.Case.Index, c.Case.Name, p, string(std), string(mean), resp.Iterations,
			)
			if err != nil {
				return fmt.Errorf("insert case %d: %w", c.Case.Index+1, err)
			}
			if resp.RAO == nil {
				continue
			}
			_, nw := resp.RAO.Shape()
			for _, d := range model.DOFs {
				for i := 0; i < nw; i++ {
					v := resp.RAO.At(d, i)
					if _, err := stmt.ExecContext(ctx, run.ID, c.Case.Index, p, int(d), i, real(v), imag(v)); err != nil {
						return fmt.Errorf("insert response: %w", err)
					}
				}
			}
		}
	}
	return nil
}

// List returns the stored runs, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.design, r.source, r.created_at, r.elapsed_ms, r.platforms,
		       (SELECT COUNT(DISTINCT case_index) FROM cases c WHERE c.run_id = r.id),
		       (SELECT COUNT(*) FROM diagnostics d WHERE d.run_id = r.id)
		FROM runs r ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Summary, 0)
	for rows.Next() {
		var sm Summary
		var created string
		var elapsed int64
		if err := rows.Scan(&sm.ID, &sm.Design, &sm.Source, &created, &elapsed, &sm.Platforms, &sm.Cases, &sm.Diagnostics); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if sm.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("run %s: %w", sm.ID, err)
		}
		sm.Elapsed = time.Duration(elapsed) * time.Millisecond
		runs = append(runs, sm)
	}
	return runs, rows.Err()
}

// Resolve expands a unique id prefix into a full run id.
func (s *Store) Resolve(ctx context.Context, prefix string) (string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs WHERE id LIKE ? || '%' LIMIT 2`, prefix)
	if err != nil {
		return "", fmt.Errorf("resolve run: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("run %q: %w", prefix, ErrNotFound)
	case 1:
		return ids[0], nil
	}
	return "", fmt.Errorf("run %q: %w", prefix, ErrAmbiguous)
}

// Load reads a complete run, responses included.
func (s *Store) Load(ctx context.Context, id string) (*Run, error) {
	run := &Run{}
	var created, freqs string
	var elapsed int64
	var platforms int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, design, source, digest, created_at, elapsed_ms, platforms, frequencies FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Design, &run.Source, &run.Digest, &created, &elapsed, &platforms, &freqs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	if run.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	run.Elapsed = time.Duration(elapsed) * time.Millisecond
	if err := json.Unmarshal([]byte(freqs), &run.Frequencies); err != nil {
		return nil, fmt.Errorf("run %s frequencies: %w", id, err)
	}

	if run.Statics, err = s.loadStatics(ctx, id, platforms); err != nil {
		return nil, err
	}
	if run.Modes, err = s.loadModes(ctx, id, platforms); err != nil {
		return nil, err
	}
	if run.Cases, err = s.loadCases(ctx, id, platforms, len(run.Frequencies)); err != nil {
		return nil, err
	}
	if run.Diagnostics, err = s.loadDiagnostics(ctx, id); err != nil {
		return nil, err
	}
	return run, nil
}

// LoadResponses returns the RAO of one platform for every stored case of a
// run, in case order.
func (s *Store) LoadResponses(ctx context.Context, id string, platform int) ([]model.CaseSpec, []*model.ResponseArray, error) {
	run, err := s.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if platform < 0 || platform >= run.NumPlatforms() {
		return nil, nil, fmt.Errorf("platform %d of %d: %w", platform, run.NumPlatforms(), model.ErrPlatformIndex)
	}
	specs := make([]model.CaseSpec, len(run.Cases))
	raos := make([]*model.ResponseArray, len(run.Cases))
	for i, c := range run.Cases {
		specs[i] = c.Case
		raos[i] = c.Platforms[platform].RAO
	}
	return specs, raos, nil
}

// Delete removes a run and everything recorded with it.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("run %q: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) loadStatics(ctx context.Context, id string, platforms int) ([]model.Statics, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT platform, mass, displacement, offset, iterations FROM statics WHERE run_id = ? ORDER BY platform`, id)
	if err != nil {
		return nil, fmt.Errorf("load statics: %w", err)
	}
	defer rows.Close()

	var out []model.Statics
	for rows.Next() {
		var p int
		var offset string
		var st model.Statics
		if err := rows.Scan(&p, &st.Mass, &st.Displacement, &offset, &st.Iterations); err != nil {
			return nil, fmt.Errorf("scan statics: %w", err)
		}
		if err := json.Unmarshal([]byte(offset), &st.Offset); err != nil {
			return nil, fmt.Errorf("statics offset: %w", err)
		}
		if p >= platforms {
			continue
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) loadModes(ctx context.Context, id string, platforms int) ([]model.Modes, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT platform, mode, frequency, dominant, shape FROM modes WHERE run_id = ? ORDER BY platform, mode`, id)
	if err != nil {
		return nil, fmt.Errorf("load modes: %w", err)
	}
	defer rows.Close()

	var out []model.Modes
	seen := false
	for rows.Next() {
		var p, k, dom int
		var f float64
		var shape string
		if err := rows.Scan(&p, &k, &f, &dom, &shape); err != nil {
			return nil, fmt.Errorf("scan mode: %w", err)
		}
		if p >= platforms || k < 0 || k >= model.NumDOF {
			continue
		}
		if !seen {
			out = make([]model.Modes, platforms)
			seen = true
		}
		out[p].Frequencies[k] = f
		out[p].Dominant[k] = model.DOF(dom)
		if err := json.Unmarshal([]byte(shape), &out[p].Shapes[k]); err != nil {
			return nil, fmt.Errorf("mode shape: %w", err)
		}
	}
	return out, rows.Err()
}

type responseKey struct {
	caseIndex, platform int
}

func (s *Store) loadCases(ctx context.Context, id string, platforms, nw int) ([]model.CaseResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT case_index, name, platform, std_dev, mean_offset, iterations FROM cases
		 WHERE run_id = ? ORDER BY case_index, platform`, id)
	if err != nil {
		return nil, fmt.Errorf("load cases: %w", err)
	}

	var out []model.CaseResult
	byKey := make(map[responseKey]*model.CaseResponse)
	for rows.Next() {
		var idx, p, iters int
		var name, std, mean string
		if err := rows.Scan(&idx, &name, &p, &std, &mean, &iters); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan case: %w", err)
		}
		if p >= platforms {
			continue
		}
		if len(out) == 0 || out[len(out)-1].Case.Index != idx {
			out = append(out, model.CaseResult{
				Case:      model.CaseSpec{Index: idx, Name: name},
				Platforms: make([]model.CaseResponse, platforms),
			})
		}
		resp := &out[len(out)-1].Platforms[p]
		resp.Iterations = iters
		resp.RAO = model.NewResponseArray(nw)
		if err := json.Unmarshal([]byte(std), &resp.StdDev); err != nil {
			rows.Close()
			return nil, fmt.Errorf("case std dev: %w", err)
		}
		if err := json.Unmarshal([]byte(mean), &resp.MeanOffset); err != nil {
			rows.Close()
			return nil, fmt.Errorf("case mean offset: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Addresses are stable once out stops growing.
	for i := range out {
		for p := range out[i].Platforms {
			byKey[responseKey{out[i].Case.Index, p}] = &out[i].Platforms[p]
		}
	}

	rrows, err := s.db.QueryContext(ctx,
		`SELECT case_index, platform, dof, freq_index, re, im FROM responses WHERE run_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}
	defer rrows.Close()
	for rrows.Next() {
		var idx, p, d, i int
		var re, im float64
		if err := rrows.Scan(&idx, &p, &d, &i, &re, &im); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		resp, ok := byKey[responseKey{idx, p}]
		if !ok || d < 0 || d >= model.NumDOF || i < 0 || i >= nw {
			continue
		}
		resp.RAO.Set(model.DOF(d), i, complex(re, im))
	}
	return out, rrows.Err()
}

func (s *Store) loadDiagnostics(ctx context.Context, id string) ([]model.Diagnostic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stage, case_index, case_name, message, error FROM diagnostics WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("load diagnostics: %w", err)
	}
	defer rows.Close()

	var out []model.Diagnostic
	for rows.Next() {
		var d model.Diagnostic
		var msg string
		if err := rows.Scan(&d.Stage, &d.Case.Index, &d.Case.Name, &d.Message, &msg); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		if msg != "" {
			d.Err = errors.New(msg)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
