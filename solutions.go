package horn

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/ichiban/horn/proof"
	"github.com/ichiban/horn/term"
)

// Solutions is the result of a query. Everytime the Next method is called, it searches for the next solution.
// By calling the Scan method, you can retrieve the content of the solution.
type Solutions struct {
	sols *proof.Solutions
}

// Close closes the Solutions and terminates the search for other solutions.
func (s *Solutions) Close() error {
	return s.sols.Close()
}

// Next prepares the next solution for reading with the Scan method. It returns true if it finds another solution,
// or false if there's no further solutions or if there's an error.
func (s *Solutions) Next() bool {
	return s.sols.Next()
}

// Current returns the bindings of the variables in the current solution.
// A variable which the solution leaves unbound is bound to term.Unbound.
func (s *Solutions) Current() term.Bindings {
	return s.sols.Current().Bindings
}

// Scan copies the variable values of the current solution into the specified struct/map.
//
// A struct field receives the variable of the same name or the name in its `horn` tag.
// Atoms convert to strings, numbers to integers, and proper lists to slices. Fields and map elements of type
// term.Term receive the term as is. Unbound variables leave the destination intact.
func (s *Solutions) Scan(dest interface{}) error {
	b := s.Current()
	o := reflect.ValueOf(dest)
	switch o.Kind() {
	case reflect.Ptr:
		o = o.Elem()
		switch o.Kind() {
		case reflect.Struct:
			t := o.Type()
			for i := 0; i < t.NumField(); i++ {
				f := t.Field(i)
				if !f.IsExported() {
					continue
				}
				name := f.Name
				if alias, ok := f.Tag.Lookup("horn"); ok {
					name = alias
				}
				v, ok := b.Lookup(term.NewVariable(name))
				if !ok || v == term.Unbound {
					continue
				}
				val, err := convert(v, f.Type)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				o.Field(i).Set(val)
			}
			return nil
		case reflect.Map:
			return scanMap(o, b)
		default:
			return fmt.Errorf("invalid kind: %s", o.Kind())
		}
	case reflect.Map:
		return scanMap(o, b)
	default:
		return fmt.Errorf("invalid kind: %s", o.Kind())
	}
}

func scanMap(o reflect.Value, b term.Bindings) error {
	if o.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("invalid key kind: %s", o.Type().Key().Kind())
	}
	if o.IsNil() {
		return errors.New("nil map")
	}
	for v, t := range b.All() {
		if t == term.Unbound {
			continue
		}
		val, err := convert(t, o.Type().Elem())
		if err != nil {
			return fmt.Errorf("%s: %w", v.Name, err)
		}
		o.SetMapIndex(reflect.ValueOf(v.Name).Convert(o.Type().Key()), val)
	}
	return nil
}

var termType = reflect.TypeOf((*term.Term)(nil)).Elem()

func convert(t term.Term, typ reflect.Type) (reflect.Value, error) {
	if typ == termType {
		v := reflect.New(typ).Elem()
		v.Set(reflect.ValueOf(t))
		return v, nil
	}
	switch typ.Kind() {
	case reflect.Interface:
		if typ.NumMethod() > 0 {
			break
		}
		return reflect.ValueOf(native(t)), nil
	case reflect.String:
		if a, ok := t.(term.Atom); ok {
			return reflect.ValueOf(string(a)).Convert(typ), nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := t.(term.Number)
		if !ok {
			break
		}
		v := reflect.New(typ).Elem()
		if v.OverflowInt(int64(n)) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, typ)
		}
		v.SetInt(int64(n))
		return v, nil
	case reflect.Slice:
		es, ok := term.Slice(t)
		if !ok {
			break
		}
		v := reflect.MakeSlice(typ, len(es), len(es))
		for i, e := range es {
			ev, err := convert(e, typ.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			v.Index(i).Set(ev)
		}
		return v, nil
	}
	return reflect.Value{}, fmt.Errorf("can't convert %s to %s", t, typ)
}

// native converts t to the Go value a caller of Scan would expect for an empty interface.
func native(t term.Term) interface{} {
	switch t := t.(type) {
	case term.Atom:
		return string(t)
	case term.Number:
		return int64(t)
	default:
		es, ok := term.Slice(t)
		if !ok {
			return t
		}
		ret := make([]interface{}, len(es))
		for i, e := range es {
			ret[i] = native(e)
		}
		return ret
	}
}

// Err returns the error if exists.
func (s *Solutions) Err() error {
	return s.sols.Err()
}

// Vars returns variable names.
func (s *Solutions) Vars() []string {
	vs := s.sols.Vars()
	ns := make([]string, len(vs))
	for i, v := range vs {
		ns[i] = v.Name
	}
	return ns
}

// Solution is the single result of a query.
type Solution struct {
	sols *Solutions
	err  error
}

// Scan copies the variable values of the solution into the specified struct/map.
func (s *Solution) Scan(dest interface{}) error {
	if err := s.err; err != nil {
		return err
	}
	return s.sols.Scan(dest)
}

// Err returns an error that occurred while querying for the Solution, if any.
func (s *Solution) Err() error {
	return s.err
}

// Vars returns variable names.
func (s *Solution) Vars() []string {
	if s.sols == nil {
		return nil
	}
	return s.sols.Vars()
}
