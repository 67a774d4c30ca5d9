// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Printer is a utility class to output data from the system
//
//go:generate mockgen -source print.go -destination print_mock.go -package utils
type Printer interface {
	Print() error
	Close() error
}

type Printers struct {
	printers []Printer
}

// Print prints to all printers and joins their errors.
func (ps *Printers) Print() error {
	var err error
	for _, p := range ps.printers {
		err = errors.CombineErrors(err, p.Print())
	}
	return err
}

func (ps *Printers) Close() error {
	var err error
	for _, p := range ps.printers {
		err = errors.CombineErrors(err, p.Close())
	}
	return err
}

func NewPrinters() *Printers {
	return &Printers{[]Printer{}}
}

func (ps *Printers) AddPrinter(p Printer) *Printers {
	ps.printers = append(ps.printers, p)
	return ps
}

// PrinterToWriter writes to any io.Writer
// Wrap f, returns a string to be printed
type PrinterToWriter struct {
	w io.Writer
	f func() string
}

func (p *PrinterToWriter) Print() error {
	_, err := fmt.Fprintln(p.w, p.f())
	return err
}

func (p *PrinterToWriter) Close() error {
	return nil
}

func NewPrinterToWriter(w io.Writer, f func() string) *PrinterToWriter {
	return &PrinterToWriter{w, f}
}

func NewPrinterToConsole(f func() string) *PrinterToWriter {
	return &PrinterToWriter{os.Stdout, f}
}

func (ps *Printers) AddPrinterToWriter(w io.Writer, f func() string) *Printers {
	return ps.AddPrinter(NewPrinterToWriter(w, f))
}

func (ps *Printers) AddPrinterToConsole(isDisabled bool, f func() string) *Printers {
	if isDisabled {
		return ps
	}
	return ps.AddPrinter(NewPrinterToConsole(f))
}

// PrinterToFile writes to a File
// Wrap f, returns a string to be printed
type PrinterToFile struct {
	filepath string
	f        func() string
}

func (p *PrinterToFile) Print() (err error) {
	file, err := os.OpenFile(p.filepath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "unable to print to file %s", p.filepath)
	}

	defer func(file *os.File) {
		err = errors.CombineErrors(err, file.Close())
	}(file)
	_, err = file.WriteString(p.f())
	return err
}

func (p *PrinterToFile) Close() error {
	return nil
}

func NewPrinterToFile(filepath string, f func() string) *PrinterToFile {
	return &PrinterToFile{filepath, f}
}

func (ps *Printers) AddPrinterToFile(filepath string, f func() string) *Printers {
	if filepath != "" {
		ps.AddPrinter(NewPrinterToFile(filepath, f))
	}
	return ps
}

// PrinterToTable renders rows as a text table
// Wrap f, returns the rows to be rendered
type PrinterToTable struct {
	w      io.Writer
	title  string
	header table.Row
	f      func() []table.Row
}

// Print writes the title on its own line above the table; go-pretty wraps
// table titles to the table width.
func (p *PrinterToTable) Print() error {
	if p.title != "" {
		if _, err := fmt.Fprintln(p.w, p.title); err != nil {
			return errors.Wrap(err, "unable to write table title")
		}
	}
	t := table.NewWriter()
	t.SetOutputMirror(p.w)
	t.AppendHeader(p.header)
	t.AppendRows(p.f())
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

func (p *PrinterToTable) Close() error {
	return nil
}

func NewPrinterToTable(w io.Writer, title string, header table.Row, f func() []table.Row) *PrinterToTable {
	return &PrinterToTable{w, title, header, f}
}

func (ps *Printers) AddPrinterToTable(isDisabled bool, title string, header table.Row, f func() []table.Row) *Printers {
	if isDisabled {
		return ps
	}
	return ps.AddPrinter(NewPrinterToTable(os.Stdout, title, header, f))
}

// PrinterToDb writes by inserting rows into DB
// Wrap f, returns an array of values to be inserted
type PrinterToDb struct {
	db     *sqlx.DB
	insert string
	f      func() [][]any
}

func (p *PrinterToDb) Print() (err error) {
	// Transaction is used to improve efficiency over bulk insert
	tx, err := p.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "unable to begin a transaction")
	}

	stmt, err := tx.Preparex(p.insert)
	if err != nil {
		return errors.CombineErrors(errors.Wrapf(err, "unable to prepare statement %s", p.insert), tx.Rollback())
	}

	for _, value := range p.f() {
		if _, err = stmt.Exec(value...); err != nil {
			return errors.CombineErrors(err, errors.CombineErrors(stmt.Close(), tx.Rollback()))
		}
	}

	if err = stmt.Close(); err != nil {
		return errors.CombineErrors(err, tx.Rollback())
	}
	return tx.Commit()
}

func (p *PrinterToDb) Close() error {
	return p.db.Close()
}

func NewPrinterToSqlite3(conn string, create string, insert string, f func() [][]any) (*PrinterToDb, error) {
	db, err := sqlx.Open("sqlite3", conn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open connection to sqlite3 %s", conn)
	}

	if _, err = db.Exec(create); err != nil {
		return nil, errors.CombineErrors(errors.Wrapf(err, "failed to create/replace table on %s", conn), db.Close())
	}

	// so that insert does not block
	if _, err = db.Exec("PRAGMA synchronous = OFF"); err != nil {
		return nil, errors.CombineErrors(err, db.Close())
	}
	// improve efficiency - no intermediate write to file
	if _, err = db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		return nil, errors.CombineErrors(err, db.Close())
	}

	return &PrinterToDb{db, insert, f}, nil
}

func (ps *Printers) AddPrinterToSqlite3(conn string, create string, insert string, f func() [][]any) (*Printers, error) {
	if conn == "" {
		return ps, nil
	}
	p, err := NewPrinterToSqlite3(conn, create, insert, f)
	if err != nil {
		return ps, err
	}
	return ps.AddPrinter(p), nil
}

var countPrinter = message.NewPrinter(language.English)

// FormatCount formats an integer with thousands separators.
func FormatCount[T ~int | ~int64 | ~uint | ~uint64](n T) string {
	return countPrinter.Sprintf("%d", n)
}
