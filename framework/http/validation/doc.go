// Package validation checks request parameters against pipe-separated rule
// strings. Route markers attach rules to the parameters they bind; the
// dispatcher runs them before converting values.
//
//	err := validation.Validate(map[string]string{
//	    "param": "5",
//	}, validation.Rules{
//	    "param": "required|integer|gte:1",
//	})
//
// # Available Rules
//
// Presence:
//   - required: present and not blank
//   - nullable: an empty value skips the remaining rules
//   - sometimes: an absent field skips the remaining rules
//
// Strings:
//   - string, min:n, max:n, size:n, between:min,max (UTF-8 characters)
//   - alpha, alpha_num, alpha_dash, regex:pattern
//   - email, url
//
// Numbers:
//   - numeric, integer, gt:n, gte:n, lt:n, lte:n
//
// Other:
//   - boolean, in:a,b,c, not_in:a,b,c, same:other, different:other
//
// Rules for a field stop at the first failure. A failed Validator's bag
// implements error and serialises as {"errors": {"field": ["msg"]}}.
package validation
