// Package ies decodes the game's table data files. An IES file is a
// fixed header, a column directory and a row block, with the column and
// row blocks addressed backwards from the end of the file. All strings
// in the directory and rows are XOR-obfuscated with key 1.
package ies

import (
	"bytes"
	"fmt"
	"sort"
	"unicode/utf8"

	"tos-asset-extract/internal/binreader"
)

const (
	headerNameSize = 128
	columnNameSize = 64
)

// Column value kinds as stored on disk.
const (
	kindFloat uint16 = iota
	kindString
	kindStringSecond
)

var ErrInvalidTable = fmt.Errorf("ies: invalid table file")

type column struct {
	name       string
	nameSecond string
	kind       uint16
	position   uint16
}

// Value is one table cell. Exactly one of the two fields is meaningful;
// IsString tells which.
type Value struct {
	Float    float32
	String   string
	IsString bool
}

// Table is a fully decoded data file. It is read-only after Parse and
// safe for concurrent lookups.
type Table struct {
	Name    string
	columns []column
	rows    [][]Value
}

// Parse decodes a complete table file from memory.
func Parse(data []byte) (*Table, error) {
	r := binreader.New(data)
	t := &Table{}

	name, err := r.Bytes(headerNameSize)
	if err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidTable)
	}
	t.Name = string(bytes.TrimRight(name, "\x00"))
	if !utf8.ValidString(t.Name) {
		return nil, fmt.Errorf("%w: table name is not valid text", ErrInvalidTable)
	}

	if _, err := r.U32(); err != nil { // padding
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidTable)
	}
	dataOffset, _ := r.U32()
	resourceOffset, _ := r.U32()
	_, _ = r.U32() // file size
	_, _ = r.U16() // padding
	rowCount, _ := r.U16()
	columnCount, _ := r.U16()
	_, _ = r.U16() // numeric column count
	stringColumnCount, _ := r.U16()
	if _, err := r.U16(); err != nil { // padding
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidTable)
	}

	// Both blocks are addressed backwards from the end of the file.
	columnsAt := r.Len() - int(resourceOffset) - int(dataOffset)
	rowsAt := r.Len() - int(resourceOffset)
	if columnsAt < 0 || rowsAt < columnsAt {
		return nil, fmt.Errorf("%w: block offsets outside the file", ErrInvalidTable)
	}

	if err := r.Seek(columnsAt); err != nil {
		return nil, fmt.Errorf("%w: column block: %v", ErrInvalidTable, err)
	}
	if err := t.readColumns(r, columnCount); err != nil {
		return nil, err
	}

	if err := r.Seek(rowsAt); err != nil {
		return nil, fmt.Errorf("%w: row block: %v", ErrInvalidTable, err)
	}
	if err := t.readRows(r, rowCount, stringColumnCount); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) readColumns(r *binreader.Reader, count uint16) error {
	for i := uint16(0); i < count; i++ {
		var c column
		raw, err := r.Bytes(columnNameSize)
		if err != nil {
			return fmt.Errorf("%w: column %d: %v", ErrInvalidTable, i, err)
		}
		if c.name, err = deobfuscate(raw); err != nil {
			return fmt.Errorf("%w: column %d name: %v", ErrInvalidTable, i, err)
		}
		if raw, err = r.Bytes(columnNameSize); err != nil {
			return fmt.Errorf("%w: column %d: %v", ErrInvalidTable, i, err)
		}
		if c.nameSecond, err = deobfuscate(raw); err != nil {
			return fmt.Errorf("%w: column %d name: %v", ErrInvalidTable, i, err)
		}
		if c.kind, err = r.U16(); err != nil {
			return fmt.Errorf("%w: column %d: %v", ErrInvalidTable, i, err)
		}
		if c.kind > kindStringSecond {
			return fmt.Errorf("%w: column %d has unknown type %d", ErrInvalidTable, i, c.kind)
		}
		if _, err = r.U32(); err != nil { // padding
			return fmt.Errorf("%w: column %d: %v", ErrInvalidTable, i, err)
		}
		if c.position, err = r.U16(); err != nil {
			return fmt.Errorf("%w: column %d: %v", ErrInvalidTable, i, err)
		}
		t.columns = append(t.columns, c)
	}

	// Row cells are stored numeric-first, each group in position order.
	sort.SliceStable(t.columns, func(a, b int) bool {
		ca, cb := t.columns[a], t.columns[b]
		if (ca.kind == kindFloat) != (cb.kind == kindFloat) {
			return ca.kind == kindFloat
		}
		if ca.kind != cb.kind {
			return ca.kind < cb.kind
		}
		return ca.position < cb.position
	})
	return nil
}

func (t *Table) readRows(r *binreader.Reader, count, stringColumns uint16) error {
	for i := uint16(0); i < count; i++ {
		if _, err := r.U32(); err != nil { // row id
			return fmt.Errorf("%w: row %d: %v", ErrInvalidTable, i, err)
		}
		n, err := r.U16()
		if err != nil {
			return fmt.Errorf("%w: row %d: %v", ErrInvalidTable, i, err)
		}
		if _, err := r.Bytes(int(n)); err != nil { // row key, unused
			return fmt.Errorf("%w: row %d: %v", ErrInvalidTable, i, err)
		}

		row := make([]Value, 0, len(t.columns))
		for ci := range t.columns {
			var v Value
			if t.columns[ci].kind == kindFloat {
				if v.Float, err = r.F32(); err != nil {
					return fmt.Errorf("%w: row %d: %v", ErrInvalidTable, i, err)
				}
			} else {
				slen, err := r.U16()
				if err != nil {
					return fmt.Errorf("%w: row %d: %v", ErrInvalidTable, i, err)
				}
				raw, err := r.Bytes(int(slen))
				if err != nil {
					return fmt.Errorf("%w: row %d: %v", ErrInvalidTable, i, err)
				}
				if v.String, err = deobfuscate(raw); err != nil {
					return fmt.Errorf("%w: row %d: %v", ErrInvalidTable, i, err)
				}
				v.IsString = true
			}
			row = append(row, v)
		}
		t.rows = append(t.rows, row)

		// One trailing use-flag byte per string column.
		if err := r.Skip(int(stringColumns)); err != nil {
			return fmt.Errorf("%w: row %d: %v", ErrInvalidTable, i, err)
		}
	}
	return nil
}

// deobfuscate reverses the XOR-1 string obfuscation. The trailing
// padding of fixed-width fields decodes to 0x01 bytes and is trimmed.
func deobfuscate(data []byte) (string, error) {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ 1
	}
	out = bytes.TrimRight(out, "\x01")
	if !utf8.Valid(out) {
		return "", fmt.Errorf("not valid text: %q", out)
	}
	return string(out), nil
}

// Columns returns the primary column names in cell order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// RowCount reports the number of decoded rows.
func (t *Table) RowCount() int { return len(t.rows) }

// Get looks a cell up by column name and row index. The secondary
// column name matches too. The second result is false when the column
// does not exist or the row index is out of range.
func (t *Table) Get(columnName string, row int) (Value, bool) {
	if row < 0 || row >= len(t.rows) {
		return Value{}, false
	}
	for i, c := range t.columns {
		if c.name == columnName {
			return t.rows[row][i], true
		}
	}
	for i, c := range t.columns {
		if c.nameSecond == columnName {
			return t.rows[row][i], true
		}
	}
	return Value{}, false
}
