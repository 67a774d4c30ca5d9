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
	"bytes"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newMockDb(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mockDb, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	return sqlx.NewDb(db, "sqlmock"), mockDb
}

func TestPrinter_AddPrinter(t *testing.T) {
	p := &Printers{[]Printer{}}
	p1 := &PrinterToWriter{}
	p2 := &PrinterToWriter{}

	p.AddPrinter(p1)
	p.AddPrinter(p2)

	assert.Equal(t, 2, len(p.printers))
}

func TestPrinter_Print(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPrinter := NewMockPrinter(ctrl)
	p := NewPrinters().AddPrinter(mockPrinter)
	mockPrinter.EXPECT().Print().Return(nil).Times(1)
	assert.NoError(t, p.Print())
}

func TestPrinter_PrintContinuesAfterError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	failing := NewMockPrinter(ctrl)
	working := NewMockPrinter(ctrl)
	p := NewPrinters().AddPrinter(failing).AddPrinter(working)
	mockErr := errors.New("mock error")
	failing.EXPECT().Print().Return(mockErr)
	working.EXPECT().Print().Return(nil)

	err := p.Print()
	assert.ErrorIs(t, err, mockErr)
}

func TestPrinter_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPrinter := NewMockPrinter(ctrl)
	p := NewPrinters().AddPrinter(mockPrinter)
	mockPrinter.EXPECT().Close().Return(nil).Times(1)
	assert.NoError(t, p.Close())
}

func TestPrinters_AddPrinterToWriter(t *testing.T) {
	p := &Printers{}
	p.AddPrinterToWriter(os.Stdout, func() string {
		return "Hello, World!"
	})
	assert.Equal(t, 1, len(p.printers))
}

func TestPrinters_AddPrinterToConsole(t *testing.T) {
	p := &Printers{}
	p.AddPrinterToConsole(false, func() string {
		return "Hello, World!"
	})
	assert.Equal(t, 1, len(p.printers))

	p = &Printers{}
	p.AddPrinterToConsole(true, func() string {
		return "Hello, World!"
	})
	assert.Equal(t, 0, len(p.printers))
}

func TestPrinters_AddPrinterToFile(t *testing.T) {
	p := &Printers{}
	p.AddPrinterToFile("test.txt", func() string {
		return "Hello, World!"
	})
	assert.Equal(t, 1, len(p.printers))

	p = &Printers{}
	p.AddPrinterToFile("", func() string {
		return "Hello, World!"
	})
	assert.Equal(t, 0, len(p.printers))
}

func TestPrinters_AddPrinterToSqlite3(t *testing.T) {
	p := &Printers{}
	_, err := p.AddPrinterToSqlite3(":memory:", "CREATE TABLE t (a INTEGER)", "", func() [][]any {
		return [][]any{}
	})
	require.NoError(t, err)
	assert.Equal(t, 1, len(p.printers))
	assert.NoError(t, p.Close())

	p = &Printers{}
	_, err = p.AddPrinterToSqlite3("", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, len(p.printers))

	_, err = p.AddPrinterToSqlite3(":memory:", "asfd;asdf", "", nil)
	assert.Error(t, err)
	assert.Equal(t, 0, len(p.printers))
}

func TestPrinterToWriter_Print(t *testing.T) {
	var buf bytes.Buffer
	p := &PrinterToWriter{
		w: &buf,
		f: func() string {
			return "Hello, World!"
		},
	}
	err := p.Print()
	assert.NoError(t, err)
	assert.Equal(t, "Hello, World!\n", buf.String())
}

func TestPrinterToWriter_Close(t *testing.T) {
	p := &PrinterToWriter{}
	assert.NoError(t, p.Close())
}

func TestPrinterToWriter_NewPrinterToWriter(t *testing.T) {
	p := NewPrinterToWriter(os.Stdout, func() string {
		return "Hello, World!"
	})
	assert.NotNil(t, p)
	assert.NotNil(t, p.w)
	assert.NotNil(t, p.f)
}

func TestPrinterToWriter_NewPrinterToConsole(t *testing.T) {
	p := NewPrinterToConsole(func() string {
		return "Hello, World!"
	})
	assert.NotNil(t, p)
	assert.Equal(t, reflect.ValueOf(os.Stdout).Pointer(), reflect.ValueOf(p.w).Pointer())
	assert.NotNil(t, p.w)
	assert.NotNil(t, p.f)
}

func TestPrinterToFile_Print(t *testing.T) {
	filePath := t.TempDir() + "/test.txt"
	p := &PrinterToFile{
		filepath: filePath,
		f: func() string {
			return "Hello, World!"
		},
	}
	require.NoError(t, p.Print())
	require.NoError(t, p.Print())

	content, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!Hello, World!", string(content))
}

func TestPrinterToFile_PrintInvalidPath(t *testing.T) {
	p := NewPrinterToFile(t.TempDir()+"/missing/test.txt", func() string {
		return "Hello, World!"
	})
	assert.Error(t, p.Print())
}

func TestPrinterToFile_NewPrinterToFile(t *testing.T) {
	filePath := t.TempDir() + "/test.txt"
	p := NewPrinterToFile(filePath, func() string {
		return "Hello, World!"
	})
	assert.NotNil(t, p)
	assert.Equal(t, filePath, p.filepath)
	assert.NoError(t, p.Close())
}

func TestPrinterToTable_Print(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterToTable(&buf, "Intervals", table.Row{"i", "x"}, func() []table.Row {
		return []table.Row{{0, 0.5}, {1, 1.25}}
	})
	require.NoError(t, p.Print())
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Intervals\n"), "title must precede the table, got %q", out)
	assert.Contains(t, out, "1.25")
	assert.NoError(t, p.Close())
}

func TestPrinterToTable_TitleWiderThanTable(t *testing.T) {
	var buf bytes.Buffer
	title := "Collision test of a sampler with a long name"
	p := NewPrinterToTable(&buf, title, table.Row{"i"}, func() []table.Row {
		return []table.Row{{1}}
	})
	require.NoError(t, p.Print())
	assert.Contains(t, buf.String(), title+"\n")
}

func TestPrinterToTable_NoTitle(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterToTable(&buf, "", table.Row{"i"}, func() []table.Row {
		return []table.Row{{7}}
	})
	require.NoError(t, p.Print())
	assert.True(t, strings.HasPrefix(buf.String(), "┌"))
}

func TestPrinters_AddPrinterToTable(t *testing.T) {
	p := NewPrinters().AddPrinterToTable(true, "", nil, nil)
	assert.Equal(t, 0, len(p.printers))
	p.AddPrinterToTable(false, "", nil, nil)
	assert.Equal(t, 1, len(p.printers))
}

func TestPrinterToDb_Print(t *testing.T) {
	db, mockDb := newMockDb(t)
	defer func(db *sqlx.DB) {
		_ = db.Close()
	}(db)

	// case success
	p := &PrinterToDb{
		db:     db,
		insert: "INSERT INTO t",
		f: func() [][]any {
			return [][]any{{1, 0.5}}
		},
	}
	mockDb.ExpectBegin()
	prep := mockDb.ExpectPrepare("INSERT INTO t").WillBeClosed()
	prep.ExpectExec().WithArgs(1, 0.5).WillReturnResult(sqlmock.NewResult(1, 1))
	mockDb.ExpectCommit()

	err := p.Print()
	assert.NoError(t, err)

	// case Begin error
	mockErr := errors.New("mock error")
	mockDb.ExpectBegin().WillReturnError(mockErr)
	err = p.Print()
	assert.Error(t, err)

	// case Prepare error
	mockDb.ExpectBegin()
	mockDb.ExpectPrepare("INSERT INTO t").WillReturnError(mockErr)
	mockDb.ExpectRollback()
	err = p.Print()
	assert.Error(t, err)

	// case Exec error
	mockDb.ExpectBegin()
	prep = mockDb.ExpectPrepare("INSERT INTO t")
	prep.ExpectExec().WillReturnError(mockErr)
	mockDb.ExpectRollback()
	err = p.Print()
	assert.ErrorIs(t, err, mockErr)

	// case Commit error
	mockDb.ExpectBegin()
	prep = mockDb.ExpectPrepare("INSERT INTO t").WillBeClosed()
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	mockDb.ExpectCommit().WillReturnError(mockErr)
	err = p.Print()
	assert.Error(t, err)

	if err = mockDb.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestPrinterToDb_Close(t *testing.T) {
	db, mockDb := newMockDb(t)

	p := &PrinterToDb{
		db:     db,
		insert: "",
		f:      nil,
	}
	mockDb.ExpectClose()
	assert.NoError(t, p.Close())
	if err := mockDb.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestPrinterToDb_NewPrinterToSqlite3(t *testing.T) {
	// case success
	db, err := NewPrinterToSqlite3(":memory:", "", "", func() [][]any {
		return [][]any{}
	})
	assert.NoError(t, err)
	assert.NotNil(t, db)
	assert.NoError(t, db.Close())

	// case error
	db, err = NewPrinterToSqlite3(":memory:", "asfd;asdf", "", func() [][]any {
		return [][]any{}
	})
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestPrinterToDb_InsertsRows(t *testing.T) {
	path := t.TempDir() + "/rows.db"
	rows := [][]any{{8, 1, 0.5}, {9, 1, 0.25}}
	p, err := NewPrinterToSqlite3(path,
		"CREATE TABLE IF NOT EXISTS results (dim INTEGER, trial INTEGER, pvalue REAL)",
		"INSERT INTO results VALUES (?, ?, ?)",
		func() [][]any { return rows })
	require.NoError(t, err)
	require.NoError(t, p.Print())

	var count int
	require.NoError(t, p.db.Get(&count, "SELECT COUNT(*) FROM results"))
	assert.Equal(t, 2, count)
	assert.NoError(t, p.Close())
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "1,000,000", FormatCount(uint64(1_000_000)))
	assert.Equal(t, "-12,345", FormatCount(-12345))
}
