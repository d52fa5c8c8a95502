package folio

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// ErrMalformedResult marks every failure to convert a picker result.
var ErrMalformedResult = errors.New("malformed picker result")

var (
	errMissingField = errors.New("missing field")
	errNilField     = errors.New("field is null")
)

// ParseError describes where a picker result stopped matching the expected
// record layout. Index is -1 when the value as a whole is unusable.
type ParseError struct {
	Index int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("%v: %v", ErrMalformedResult, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%v: record %d field %q: %v", ErrMalformedResult, e.Index, e.Field, e.Err)
	default:
		return fmt.Sprintf("%v: record %d: %v", ErrMalformedResult, e.Index, e.Err)
	}
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformedResult, e.Err}
}

type pickerRecord struct {
	Path  string `mapstructure:"path"`
	Bytes []byte `mapstructure:"bytes"`
}

var requiredRecordFields = []string{"path", "bytes"}

// ParseRecords converts a raw picker result into file entries, preserving the
// input order. It is all or nothing: any bad record fails the whole result.
func ParseRecords(raw any) ([]FileEntry, error) {
	if raw == nil {
		return nil, &ParseError{Index: -1, Err: errors.New("result is nil")}
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, &ParseError{Index: -1, Err: fmt.Errorf("expected an array of records, got %T", raw)}
	}

	entries := make([]FileEntry, 0, rv.Len())
	seen := make(map[string]int, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		rec, err := decodeRecord(rv.Index(i).Interface())
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				perr.Index = i
				return nil, perr
			}
			return nil, &ParseError{Index: i, Err: err}
		}
		p, err := NormalizePath(rec.Path)
		if err != nil {
			return nil, &ParseError{Index: i, Field: "path", Err: fmt.Errorf("%q: %w", rec.Path, err)}
		}
		if first, dup := seen[p]; dup {
			return nil, &ParseError{Index: i, Field: "path", Err: fmt.Errorf("%q duplicates record %d", p, first)}
		}
		seen[p] = i
		entries = append(entries, FileEntry{Path: p, Content: rec.Bytes})
	}
	return entries, nil
}

func decodeRecord(elem any) (pickerRecord, error) {
	if m, ok := elem.(map[string]any); ok {
		for _, field := range requiredRecordFields {
			v, present := m[field]
			if !present {
				return pickerRecord{}, &ParseError{Field: field, Err: errMissingField}
			}
			if v == nil {
				return pickerRecord{}, &ParseError{Field: field, Err: errNilField}
			}
		}
	}

	var rec pickerRecord
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnset:       true,
		WeaklyTypedInput: false,
		Result:           &rec,
	})
	if err != nil {
		return pickerRecord{}, err
	}
	if err := dec.Decode(elem); err != nil {
		return pickerRecord{}, err
	}
	return rec, nil
}
