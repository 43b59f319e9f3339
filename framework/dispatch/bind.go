package dispatch

import (
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"

	mvchttp "github.com/km-arc/go-mvc/framework/http"
	"github.com/km-arc/go-mvc/framework/http/validation"
	"github.com/km-arc/go-mvc/framework/mapping"
)

var (
	rawRequestType = reflect.TypeOf((*http.Request)(nil))
	requestType    = reflect.TypeOf((*mvchttp.Request)(nil))
)

// artifacts left by multi-value encodings such as "[5]"
var brackets = strings.NewReplacer("[", "", "]", "")

// clean strips bracket artifacts and surrounding space from a raw value.
func clean(v string) string {
	return strings.TrimSpace(brackets.Replace(v))
}

// bind builds the call arguments of route: the receiver first, then one
// value per method parameter.
func bind(route *mapping.Route, r *http.Request, res *mvchttp.Response) ([]reflect.Value, error) {
	plan := route.Plan
	req := mvchttp.NewRequest(r)

	params, err := req.Params()
	if err != nil {
		return nil, &ArgumentBindingError{Route: route.Name, Err: fmt.Errorf("%w: %w", ErrMalformed, err)}
	}

	args := make([]reflect.Value, len(plan.Params)+1)
	args[0] = route.Target
	for i, b := range plan.Params {
		args[i+1] = reflect.Zero(b.Type)
	}

	keys := make([]string, 0, len(plan.Query))
	for key := range plan.Query {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if rules := plan.Rules(); rules != nil {
		data := make(map[string]string, len(rules))
		for key := range rules {
			if vs := params[key]; len(vs) > 0 {
				data[key] = clean(vs[0])
			}
		}
		if err := validation.Validate(data, rules); err != nil {
			return nil, &ArgumentBindingError{Route: route.Name, Err: err}
		}
	}

	for _, key := range keys {
		vs := params[key]
		if len(vs) == 0 {
			continue
		}
		i := plan.Query[key]
		raw := clean(vs[0])
		v, err := convert(raw, plan.Params[i].Type)
		if err != nil {
			return nil, &ArgumentBindingError{Route: route.Name, Key: key, Value: raw, Err: err}
		}
		args[i+1] = v
	}

	for _, i := range plan.Handles {
		b := plan.Params[i]
		switch {
		case b.Kind == mapping.KindResponse:
			args[i+1] = reflect.ValueOf(res)
		case b.Type == rawRequestType:
			args[i+1] = reflect.ValueOf(r)
		case b.Type == requestType:
			args[i+1] = reflect.ValueOf(req)
		}
	}

	mt := route.Method.Type()
	for i, a := range args {
		if !a.Type().AssignableTo(mt.In(i)) {
			return nil, &ArgumentBindingError{
				Route: route.Name,
				Err:   fmt.Errorf("%w: argument %d is %s, want %s", ErrArgMismatch, i, a.Type(), mt.In(i)),
			}
		}
	}
	return args, nil
}

// convert turns raw into a value of type t. Integer kinds are parsed exactly
// at the kind's bit size; string kinds receive raw unchanged.
func convert(raw string, t reflect.Type) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w to %s: %w", ErrConversion, t, err)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w to %s: %w", ErrConversion, t, err)
		}
		v.SetUint(n)
	default:
		return reflect.Value{}, fmt.Errorf("%w to %s", ErrConversion, t)
	}
	return v, nil
}
