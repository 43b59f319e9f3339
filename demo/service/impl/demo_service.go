package impl

import "fmt"

// DemoService is the default service.DemoService.
type DemoService struct{}

func NewDemoService() *DemoService { return &DemoService{} }

func (s *DemoService) Test(param string) string {
	return fmt.Sprintf("OK: %s", param)
}

// Calculator is the default service.Calculator; it is registered under the
// explicit name "calc".
type Calculator struct{}

func NewCalculator() *Calculator { return &Calculator{} }

func (c *Calculator) Add(a, b int) int { return a + b }
