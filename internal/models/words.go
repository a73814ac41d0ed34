// Package models defines core data structures for go-words
package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the storage and wire format of catalog and word dates.
const DateLayout = "2006-01-02"

// Date is a calendar day. It reads and writes DateLayout in JSON and in
// the database, so a date received from the API can be sent back as is.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day
func NewDate(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String returns the date as YYYY-MM-DD, the zero date as ""
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("date %q is not YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

// Scan implements sql.Scanner. go-sqlite3 returns DATE columns as time.Time,
// plain text is accepted too.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.parseStored(v)
	case []byte:
		return d.parseStored(string(v))
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

func (d *Date) parseStored(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("stored date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Value implements driver.Valuer; the zero date is NULL
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format(DateLayout), nil
}

// User owns catalogs. Password holds the bcrypt hash and never leaves the server.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Language a catalog is written in (e.g. "English", "Deutsch")
type Language struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Catalog is a named word list belonging to one user and one language
type Catalog struct {
	ID         int64  `json:"id" db:"id"`
	LanguageID int64  `json:"language_id" db:"language_id"`
	UserID     int64  `json:"user_id" db:"user_id"`
	Name       string `json:"name" db:"name"`
	Date       Date   `json:"date" db:"date"`

	Language *Language `json:"language,omitempty" db:"-"`
}

// Word is a single vocabulary entry of a catalog
type Word struct {
	ID            int64  `json:"id" db:"id"`
	CatalogID     int64  `json:"catalog_id" db:"catalog_id"`
	Name          string `json:"name" db:"name"`
	Pronunciation string `json:"pronunciation" db:"pronunciation"`
	Value         string `json:"value" db:"value"`
	Date          Date   `json:"date" db:"date"`
}

// CatalogFilter narrows ListCatalogs. Zero values match everything.
type CatalogFilter struct {
	LanguageID int64
	UserID     int64
}
