// Package service declares the capabilities the demo handlers depend on.
package service

// DemoService answers the demo controller's requests.
type DemoService interface {
	Test(param string) string
}

// Calculator does arithmetic for the /web/add route.
type Calculator interface {
	Add(a, b int) int
}
