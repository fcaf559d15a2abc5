// Fixed column fields of a pdb line.
// Columns count from zero and both ends are inclusive, so the
// atom serial number lives in [6, 10].

package record

import (
	"errors"
	"strconv"
	"strings"

	"github.com/andrew-torda/molsys/pdb/cmmn"
)

// The ways a field can be broken. Use errors.Is() on a FieldError.
var (
	ErrShortLine  = errors.New("line too short")
	ErrEmptyField = errors.New("field is empty")
	ErrConvert    = errors.New("cannot convert")
)

// FieldError says which field of which line could not be read.
type FieldError struct {
	Field string // name of the field, like "occupancy"
	Sub   string // the trimmed substring, if we got that far
	Line  string // the complete line
	Err   error  // one of ErrShortLine, ErrEmptyField, ErrConvert
}

func (e *FieldError) Error() string {
	msg := "field '" + e.Field + "': " + e.Err.Error()
	if errors.Is(e.Err, ErrConvert) {
		msg += " '" + e.Sub + "'"
	}
	return msg + " in line\n<|" + e.Line + "|>"
}

func (e *FieldError) Unwrap() error { return e.Err }

// Field is a named column range.
type Field struct {
	Name     string
	From, To int
}

var (
	fRecordName = Field{"record_name", 0, 5}
	fSerial     = Field{"atom_serial_number", 6, 10}
	fAtomName   = Field{"atom_name", 12, 15}
	fAltLoc     = Field{"alternate_location", 16, 16}
	fResName    = Field{"residue_name", 17, 19}
	fChainID    = Field{"chain_identifier", 21, 21}
	fResSeq     = Field{"residue_sequence_number", 22, 25}
	fInsCode    = Field{"insertion_code", 26, 26}
	fX          = Field{"x", 30, 37}
	fY          = Field{"y", 38, 45}
	fZ          = Field{"z", 46, 53}
	fOccupancy  = Field{"occupancy", 54, 59}
	fTempFactor = Field{"temperature_factor", 60, 65}
	fElement    = Field{"element", 76, 77}
	fCharge     = Field{"charge", 78, 79}
	fModelNum   = Field{"model_number", 10, 13}
)

// raw returns the trimmed contents of a field. If use is false, the
// caller should take its default value.
func (f Field) raw(line string, mandatory bool) (s string, use bool, err error) {
	if len(line) < f.To {
		if mandatory {
			return "", false, &FieldError{Field: f.Name, Line: line, Err: ErrShortLine}
		}
		return "", false, nil
	}
	end := f.To + 1
	if end > len(line) {
		end = len(line)
	}
	s = strings.TrimSpace(line[f.From:end])
	if s == "" {
		if mandatory {
			return "", false, &FieldError{Field: f.Name, Line: line, Err: ErrEmptyField}
		}
		return "", false, nil
	}
	return s, true, nil
}

func (f Field) convErr(s, line string) error {
	return &FieldError{Field: f.Name, Sub: s, Line: line, Err: ErrConvert}
}

// Int reads an integer field.
func (f Field) Int(line string, mandatory bool, dflt int) (int, error) {
	s, use, err := f.raw(line, mandatory)
	if !use {
		return dflt, err
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return dflt, f.convErr(s, line)
	}
	return i, nil
}

// Float reads a floating point field.
func (f Field) Float(line string, mandatory bool, dflt float64) (float64, error) {
	s, use, err := f.raw(line, mandatory)
	if !use {
		return dflt, err
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return dflt, f.convErr(s, line)
	}
	return x, nil
}

// Char reads a one character field.
func (f Field) Char(line string, mandatory bool, dflt byte) (byte, error) {
	s, use, err := f.raw(line, mandatory)
	if !use {
		return dflt, err
	}
	if len(s) != 1 {
		return dflt, f.convErr(s, line)
	}
	return s[0], nil
}

// String reads a field and trims white space.
func (f Field) String(line string, mandatory bool, dflt string) (string, error) {
	s, use, err := f.raw(line, mandatory)
	if !use {
		return dflt, err
	}
	return s, nil
}

// ParseCharge turns the trimmed charge columns into a number.
// Blank is cmmn.NoCharge, "2+" is 2, "1-" is -1, and a lone digit is
// taken as positive.
func ParseCharge(s string) (int, error) {
	if s == "" {
		return cmmn.NoCharge, nil
	}
	sign := 1
	if len(s) == 2 {
		switch s[1] {
		case '-':
			sign = -1
		case '+':
		default:
			return cmmn.NoCharge, ErrConvert
		}
	} else if len(s) != 1 {
		return cmmn.NoCharge, ErrConvert
	}
	if s[0] < '0' || s[0] > '9' {
		return cmmn.NoCharge, ErrConvert
	}
	return sign * int(s[0]-'0'), nil
}

// charge reads the charge columns of a line.
func charge(line string, mandatory bool) (int, error) {
	s, _, err := fCharge.raw(line, mandatory)
	if err != nil {
		return cmmn.NoCharge, err
	}
	q, err := ParseCharge(s)
	if err != nil {
		return cmmn.NoCharge, fCharge.convErr(s, line)
	}
	return q, nil
}
