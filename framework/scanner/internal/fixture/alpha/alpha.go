// Package alpha holds scanner fixtures.
package alpha

type Apple struct{}

type Zed struct{}
