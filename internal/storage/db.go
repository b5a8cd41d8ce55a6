package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"memberdoc/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS industrial_groups (
  id TEXT PRIMARY KEY,
  code TEXT,
  name_th TEXT NOT NULL,
  name_en TEXT,
  raw_json TEXT NOT NULL DEFAULT '{}',
  lastSeenAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_industrial_groups_code ON industrial_groups(code);

CREATE TABLE IF NOT EXISTS provincial_chapters (
  id TEXT PRIMARY KEY,
  code TEXT,
  name_th TEXT NOT NULL,
  name_en TEXT,
  raw_json TEXT NOT NULL DEFAULT '{}',
  lastSeenAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_provincial_chapters_code ON provincial_chapters(code);

CREATE TABLE IF NOT EXISTS documents (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  memberType TEXT NOT NULL,
  applicantRef TEXT,
  email TEXT,
  filename TEXT NOT NULL,
  filePath TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'generated',
  errorMessage TEXT,
  timingsJson TEXT NOT NULL DEFAULT '{}',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

const (
	TableIndustrialGroups   = "industrial_groups"
	TableProvincialChapters = "provincial_chapters"
)

func registryTable(table string) (string, error) {
	switch table {
	case TableIndustrialGroups, TableProvincialChapters:
		return table, nil
	default:
		return "", fmt.Errorf("unknown registry table: %s", table)
	}
}

func (d *DB) UpsertGroupEntries(table string, entries []internal.GroupEntry) error {
	name, err := registryTable(table)
	if err != nil {
		return err
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(fmt.Sprintf(`
INSERT INTO %s (id, code, name_th, name_en, raw_json, lastSeenAt)
VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
  code=excluded.code,
  name_th=excluded.name_th,
  name_en=excluded.name_en,
  raw_json=excluded.raw_json,
  lastSeenAt=CURRENT_TIMESTAMP
`, name))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		raw := e.RawJSON
		if raw == "" {
			raw = "{}"
		}
		if _, err := stmt.Exec(e.ID, e.Code, e.NameTh, e.NameEn, raw); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListGroupEntries(table string) ([]internal.GroupEntry, error) {
	name, err := registryTable(table)
	if err != nil {
		return nil, err
	}

	rows, err := d.conn.Query(fmt.Sprintf(`SELECT id, code, name_th, name_en, raw_json FROM %s ORDER BY id`, name))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.GroupEntry
	for rows.Next() {
		var e internal.GroupEntry
		var code, nameEn sql.NullString
		if err := rows.Scan(&e.ID, &code, &e.NameTh, &nameEn, &e.RawJSON); err != nil {
			return nil, err
		}
		e.Code = code.String
		e.NameEn = nameEn.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d *DB) InsertDocument(traceID, memberType, applicantRef, email, filename, filePath, status, timingsJSON string) (int64, error) {
	if timingsJSON == "" {
		timingsJSON = "{}"
	}
	result, err := d.conn.Exec(`
INSERT INTO documents (traceId, memberType, applicantRef, email, filename, filePath, status, timingsJson)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, traceID, memberType, applicantRef, email, filename, filePath, status, timingsJSON)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) UpdateDocumentStatus(id int64, status, errorMessage string) error {
	_, err := d.conn.Exec(`
UPDATE documents SET status = ?, errorMessage = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?
`, status, errorMessage, id)
	return err
}

func (d *DB) GetDocumentByID(id int64) (*internal.DocumentRow, error) {
	row, err := d.scanDocument(d.conn.QueryRow(`
SELECT id, traceId, memberType, applicantRef, email, filename, filePath, status, errorMessage, createdAt
FROM documents WHERE id = ?
`, id))
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (d *DB) ListDocumentsByStatus(status string, limit int) ([]internal.DocumentRow, error) {
	rows, err := d.conn.Query(`
SELECT id, traceId, memberType, applicantRef, email, filename, filePath, status, errorMessage, createdAt
FROM documents WHERE status = ? ORDER BY createdAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.DocumentRow
	for rows.Next() {
		var row internal.DocumentRow
		var applicantRef, email, errorMessage sql.NullString
		if err := rows.Scan(&row.ID, &row.TraceID, &row.MemberType, &applicantRef, &email, &row.Filename, &row.FilePath, &row.Status, &errorMessage, &row.CreatedAt); err != nil {
			return nil, err
		}
		row.ApplicantRef = applicantRef.String
		row.Email = email.String
		row.ErrorMessage = errorMessage.String
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) scanDocument(r *sql.Row) (*internal.DocumentRow, error) {
	var row internal.DocumentRow
	var applicantRef, email, errorMessage sql.NullString
	err := r.Scan(&row.ID, &row.TraceID, &row.MemberType, &applicantRef, &email, &row.Filename, &row.FilePath, &row.Status, &errorMessage, &row.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	row.ApplicantRef = applicantRef.String
	row.Email = email.String
	row.ErrorMessage = errorMessage.String
	return &row, nil
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
