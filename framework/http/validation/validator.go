package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Errors is the message bag: field → messages.
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs := e.Bag[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Error joins every message, fields in sorted order, so a failed bag can be
// returned as an error.
func (e *Errors) Error() string {
	fields := make([]string, 0, len(e.Bag))
	for f := range e.Bag {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var msgs []string
	for _, f := range fields {
		msgs = append(msgs, e.Bag[f]...)
	}
	return strings.Join(msgs, " ")
}

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"param": "required|integer", "name": "min:2"}
type Rules map[string]string

// Validator validates a flat map of input values.
type Validator struct {
	data   map[string]string
	rules  Rules
	errors *Errors
	ran    bool
}

// Make creates a new Validator.
func Make(data map[string]string, rules Rules) *Validator {
	return &Validator{data: data, rules: rules, errors: &Errors{}}
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	v.validate()
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the validation error bag.
func (v *Validator) Errors() *Errors { return v.errors }

// Validate runs the rules and returns the bag as an error, or nil.
func Validate(data map[string]string, rules Rules) error {
	v := Make(data, rules)
	if v.Fails() {
		return v.errors
	}
	return nil
}

// outcome of a single rule.
type outcome int

const (
	pass outcome = iota
	fail
	stop // skip the remaining rules of the field without an error
)

type check func(v *Validator, field, value, param string) (outcome, string)

var (
	alphaRe     = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphaNumRe  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	alphaDashRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	urlRe       = regexp.MustCompile(`^https?://`)
)

var checks = map[string]check{
	"required": func(_ *Validator, f, value, _ string) (outcome, string) {
		if strings.TrimSpace(value) == "" {
			return fail, fmt.Sprintf("The %s field is required.", f)
		}
		return pass, ""
	},
	"nullable": func(_ *Validator, _, value, _ string) (outcome, string) {
		if value == "" {
			return stop, ""
		}
		return pass, ""
	},
	"sometimes": func(v *Validator, f, _, _ string) (outcome, string) {
		if _, present := v.data[f]; !present {
			return stop, ""
		}
		return pass, ""
	},
	"string": func(_ *Validator, _, _, _ string) (outcome, string) { return pass, "" },
	"numeric": func(_ *Validator, f, value, _ string) (outcome, string) {
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fail, fmt.Sprintf("The %s must be a number.", f)
		}
		return pass, ""
	},
	"integer": func(_ *Validator, f, value, _ string) (outcome, string) {
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return fail, fmt.Sprintf("The %s must be an integer.", f)
		}
		return pass, ""
	},
	"boolean": func(_ *Validator, f, value, _ string) (outcome, string) {
		switch strings.ToLower(value) {
		case "true", "false", "1", "0", "yes", "no":
			return pass, ""
		}
		return fail, fmt.Sprintf("The %s field must be true or false.", f)
	},
	"email": func(_ *Validator, f, value, _ string) (outcome, string) {
		if _, err := mail.ParseAddress(value); err != nil {
			return fail, fmt.Sprintf("The %s must be a valid email address.", f)
		}
		return pass, ""
	},
	"url": func(_ *Validator, f, value, _ string) (outcome, string) {
		if !urlRe.MatchString(value) {
			return fail, fmt.Sprintf("The %s must be a valid URL.", f)
		}
		return pass, ""
	},
	"min": func(_ *Validator, f, value, param string) (outcome, string) {
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) < n {
			return fail, fmt.Sprintf("The %s must be at least %d characters.", f, n)
		}
		return pass, ""
	},
	"max": func(_ *Validator, f, value, param string) (outcome, string) {
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) > n {
			return fail, fmt.Sprintf("The %s may not be greater than %d characters.", f, n)
		}
		return pass, ""
	},
	"size": func(_ *Validator, f, value, param string) (outcome, string) {
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) != n {
			return fail, fmt.Sprintf("The %s must be %d characters.", f, n)
		}
		return pass, ""
	},
	"between": func(_ *Validator, f, value, param string) (outcome, string) {
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			return pass, ""
		}
		min, _ := strconv.Atoi(strings.TrimSpace(lo))
		max, _ := strconv.Atoi(strings.TrimSpace(hi))
		if l := utf8.RuneCountInString(value); l < min || l > max {
			return fail, fmt.Sprintf("The %s must be between %d and %d characters.", f, min, max)
		}
		return pass, ""
	},
	"in": func(_ *Validator, f, value, param string) (outcome, string) {
		if !listContains(param, value) {
			return fail, fmt.Sprintf("The selected %s is invalid.", f)
		}
		return pass, ""
	},
	"not_in": func(_ *Validator, f, value, param string) (outcome, string) {
		if listContains(param, value) {
			return fail, fmt.Sprintf("The selected %s is invalid.", f)
		}
		return pass, ""
	},
	"same": func(v *Validator, f, value, param string) (outcome, string) {
		if v.data[param] != value {
			return fail, fmt.Sprintf("The %s and %s must match.", f, param)
		}
		return pass, ""
	},
	"different": func(v *Validator, f, value, param string) (outcome, string) {
		if v.data[param] == value {
			return fail, fmt.Sprintf("The %s and %s must be different.", f, param)
		}
		return pass, ""
	},
	"alpha":      patternCheck(alphaRe, "The %s may only contain letters."),
	"alpha_num":  patternCheck(alphaNumRe, "The %s may only contain letters and numbers."),
	"alpha_dash": patternCheck(alphaDashRe, "The %s may only contain letters, numbers, dashes and underscores."),
	"regex": func(_ *Validator, f, value, param string) (outcome, string) {
		re, err := regexp.Compile(param)
		if err != nil || !re.MatchString(value) {
			return fail, fmt.Sprintf("The %s format is invalid.", f)
		}
		return pass, ""
	},
	"gt":  compareCheck(func(a, b float64) bool { return a > b }, "The %s must be greater than %s."),
	"gte": compareCheck(func(a, b float64) bool { return a >= b }, "The %s must be greater than or equal to %s."),
	"lt":  compareCheck(func(a, b float64) bool { return a < b }, "The %s must be less than %s."),
	"lte": compareCheck(func(a, b float64) bool { return a <= b }, "The %s must be less than or equal to %s."),
}

func patternCheck(re *regexp.Regexp, msg string) check {
	return func(_ *Validator, f, value, _ string) (outcome, string) {
		if !re.MatchString(value) {
			return fail, fmt.Sprintf(msg, f)
		}
		return pass, ""
	}
}

func compareCheck(ok func(a, b float64) bool, msg string) check {
	return func(_ *Validator, f, value, param string) (outcome, string) {
		a, err := strconv.ParseFloat(value, 64)
		b, _ := strconv.ParseFloat(param, 64)
		if err != nil || !ok(a, b) {
			return fail, fmt.Sprintf(msg, f, param)
		}
		return pass, ""
	}
}

func listContains(list, value string) bool {
	for _, item := range strings.Split(list, ",") {
		if strings.TrimSpace(item) == value {
			return true
		}
	}
	return false
}

// KnownRule reports whether name is a rule this package understands.
func KnownRule(name string) bool {
	_, ok := checks[name]
	return ok
}

// ParseRules splits a rule string into rule names, rejecting unknown ones.
func ParseRules(ruleStr string) ([]string, error) {
	var names []string
	for _, rule := range strings.Split(ruleStr, "|") {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		name, _, _ := strings.Cut(rule, ":")
		if !KnownRule(name) {
			return nil, fmt.Errorf("validation: unknown rule %q", name)
		}
		names = append(names, name)
	}
	return names, nil
}

func (v *Validator) validate() {
	if v.ran {
		return
	}
	v.ran = true

	for field, ruleStr := range v.rules {
		value := v.data[field]
		for _, rule := range strings.Split(ruleStr, "|") {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}
			// min:3 → name=min, param=3
			name, param, _ := strings.Cut(rule, ":")
			c, ok := checks[name]
			if !ok {
				continue
			}
			res, msg := c(v, field, value, param)
			if res == fail {
				v.errors.add(field, msg)
			}
			if res != pass {
				break // bail on the first failure
			}
		}
	}
}
