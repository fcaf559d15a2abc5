// Package store keeps molecular systems in an SQLite file. One row
// per system, one row per atom. A stored system can be loaded back and
// looks like the one that was saved.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/andrew-torda/molsys/pdb/molsys"
	"github.com/andrew-torda/molsys/pdb/record"
)

var ErrNoSystem = errors.New("no such system in database")

const schema = `
CREATE TABLE IF NOT EXISTS systems (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	source    TEXT NOT NULL,
	name      TEXT NOT NULL,
	sys_index INTEGER NOT NULL,
	altloc    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS atoms (
	system_id INTEGER NOT NULL REFERENCES systems(id) ON DELETE CASCADE,
	model     INTEGER NOT NULL,
	chain     TEXT NOT NULL,
	res_name  TEXT NOT NULL,
	res_seq   INTEGER NOT NULL,
	ins_code  TEXT NOT NULL,
	serial    INTEGER NOT NULL,
	name      TEXT NOT NULL,
	altloc    TEXT NOT NULL,
	het       INTEGER NOT NULL,
	x REAL NOT NULL, y REAL NOT NULL, z REAL NOT NULL,
	occupancy REAL NOT NULL,
	bfactor   REAL NOT NULL,
	element   TEXT NOT NULL,
	charge    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS atoms_system ON atoms(system_id, model);
`

const insertAtom = `INSERT INTO atoms
	(system_id, model, chain, res_name, res_seq, ins_code, serial, name, altloc, het,
	 x, y, z, occupancy, bfactor, element, charge)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Store wraps the database handle.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens or creates fname and makes sure the tables exist.
// ":memory:" gives a database that vanishes on Close.
func Open(ctx context.Context, fname string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", fname)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", fname, err)
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db, log: log}
	if err := s.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the tables if they are not there.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to set pragma: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveSystem writes sys and all its atoms in one transaction and
// returns the new system id. src says where the system came from,
// usually a file name.
func (s *Store) SaveSystem(ctx context.Context, src string, sys *molsys.System) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO systems (source, name, sys_index, altloc) VALUES (?, ?, ?, ?)",
		src, sys.Name, sys.Index(), string(sys.AltLoc()))
	if err != nil {
		return 0, fmt.Errorf("insert system: %w", err)
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, err
	}
	stmt, err := tx.PrepareContext(ctx, insertAtom)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()
	n := 0
	for m := range sys.Models() {
		for a := range m.Atoms() {
			xyz := a.Coord()
			_, err = stmt.ExecContext(ctx, id, m.Number(), string(a.ChainID()),
				a.ResidueName(), a.ResSeq(), string(a.InsCode()), a.Serial(),
				a.AtomName(), string(a.AltLoc()), a.IsHetatm(),
				xyz.X, xyz.Y, xyz.Z, a.Occupancy(), a.TempFactor(), a.Element(), a.Charge())
			if err != nil {
				return 0, fmt.Errorf("insert atom %d: %w", a.Serial(), err)
			}
			n++
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	s.log.Debug().Int64("id", id).Str("source", src).Int("atoms", n).Msg("saved system")
	return id, nil
}

// CountAtoms is the number of atoms stored for system id.
func (s *Store) CountAtoms(ctx context.Context, id int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM atoms WHERE system_id = ?", id).Scan(&n)
	return n, err
}

// Sources lists where each stored system came from, by id.
func (s *Store) Sources(ctx context.Context) (map[int64]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, source FROM systems")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make(map[int64]string)
	for rows.Next() {
		var id int64
		var src string
		if err := rows.Scan(&id, &src); err != nil {
			return nil, err
		}
		ret[id] = src
	}
	return ret, rows.Err()
}

func firstByte(s string) byte {
	if s == "" {
		return ' '
	}
	return s[0]
}

// LoadSystem rebuilds system id.
func (s *Store) LoadSystem(ctx context.Context, id int64) (*molsys.System, error) {
	var name, alt string
	var index int
	err := s.db.QueryRowContext(ctx,
		"SELECT name, sys_index, altloc FROM systems WHERE id = ?", id).Scan(&name, &index, &alt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNoSystem, id)
	}
	if err != nil {
		return nil, err
	}
	sys := molsys.NewSystem(index)
	sys.Name = name
	sys.SetAltLoc(firstByte(alt))

	rows, err := s.db.QueryContext(ctx, `SELECT model, chain, res_name, res_seq, ins_code,
		serial, name, altloc, het, x, y, z, occupancy, bfactor, element, charge
		FROM atoms WHERE system_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var a record.AtomRecord
		var model int
		var chain, icode, aalt string
		err := rows.Scan(&model, &chain, &a.ResName, &a.Seq, &icode, &a.Num, &a.Name, &aalt,
			&a.Het, &a.Xyz.X, &a.Xyz.Y, &a.Xyz.Z, &a.Occ, &a.BFactor, &a.Elem, &a.Q)
		if err != nil {
			return nil, err
		}
		a.Chain, a.ICode, a.Alt = firstByte(chain), firstByte(icode), firstByte(aalt)
		if _, err := sys.AddAtom(model, &a); err != nil {
			return nil, err
		}
	}
	return sys, rows.Err()
}
