package batch

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"math"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/somnolab/prv.report/internal/monitoring"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store persists run reports to a sqlite database so repeated extraction
// runs over a dataset can be audited later.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if necessary) the report database at path and
// brings its schema up to date.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open report db: %w", err)
	}
	// avoid transient locks when the CLI and a reader share the file
	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// migrateLogger implements migrate.Logger interface
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	monitoring.Logf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool { return false }

// SaveReport writes one run row plus one row per subject result.
func (s *Store) SaveReport(r *Report) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs (run_id, dataset_dir, ppg_key, fs_interp, method, started, finished)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Config.DatasetDir, r.Config.PPGKey, r.Config.FsInterp, r.Config.Method,
		r.Started, r.Finished)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, res := range r.Results {
		var errText sql.NullString
		if res.Err != nil {
			errText = sql.NullString{String: res.Err.Error(), Valid: true}
		}
		_, err = tx.Exec(`INSERT INTO subject_results
			(run_id, series, subject_id, kind, error, beats, mean_ibi, sdnn, rmssd, peaks_written, ibi_written)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.RunID, res.Series, res.SubjectID, string(res.Kind), errText, res.Beats,
			nullable(res.Summary.MeanIBI), nullable(res.Summary.SDNN), nullable(res.Summary.RMSSD),
			boolInt(res.PeaksWritten), boolInt(res.IBIWritten))
		if err != nil {
			return fmt.Errorf("insert result for %s/%s: %w", res.Series, res.SubjectID, err)
		}
	}
	return tx.Commit()
}

// RunCount returns the number of recorded runs.
func (s *Store) RunCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

// nullable maps NaN statistics to SQL NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
