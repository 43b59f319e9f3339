package scanner_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-mvc/framework/component"
	"github.com/km-arc/go-mvc/framework/scanner"
	"github.com/km-arc/go-mvc/framework/scanner/internal/fixture/alpha"
	"github.com/km-arc/go-mvc/framework/scanner/internal/fixture/alpha/beta"
	"github.com/km-arc/go-mvc/framework/scanner/internal/fixture/gamma"
)

const fixtureRoot = "github.com/km-arc/go-mvc/framework/scanner/internal/fixture"

func newCatalog(t *testing.T) *component.Catalog {
	t.Helper()
	c := component.NewCatalog()
	// Registration order is deliberately not the walk order.
	c.Service(&gamma.Gum{})
	c.Service(&alpha.Zed{}, component.Named("zed"))
	c.Service(&beta.Bean{})
	c.Service(&alpha.Apple{})
	require.NoError(t, c.Err())
	return c
}

func TestScanner_WalkOrder(t *testing.T) {
	names, err := scanner.New(newCatalog(t)).Names(fixtureRoot)
	require.NoError(t, err)

	assert.Equal(t, []string{
		fixtureRoot + "/alpha.Apple",
		fixtureRoot + "/alpha.Zed",
		fixtureRoot + "/alpha/beta.Bean",
		fixtureRoot + "/gamma.Gum",
	}, slices.Collect(names))
}

func TestScanner_SubtreeOnly(t *testing.T) {
	names, err := scanner.New(newCatalog(t)).Names(fixtureRoot + "/alpha/beta/")
	require.NoError(t, err)
	assert.Equal(t, []string{fixtureRoot + "/alpha/beta.Bean"}, slices.Collect(names))
}

func TestScanner_EmptyRootScansEverything(t *testing.T) {
	names, err := scanner.New(newCatalog(t)).Names("")
	require.NoError(t, err)
	assert.Len(t, slices.Collect(names), 4)
}

func TestScanner_Restartable(t *testing.T) {
	seq, err := scanner.New(newCatalog(t)).Scan(fixtureRoot)
	require.NoError(t, err)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
}

func TestScanner_StopsEarly(t *testing.T) {
	seq, err := scanner.New(newCatalog(t)).Scan(fixtureRoot)
	require.NoError(t, err)

	var seen int
	for range seq {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestScanner_Descriptors(t *testing.T) {
	seq, err := scanner.New(newCatalog(t)).Scan(fixtureRoot + "/alpha")
	require.NoError(t, err)

	var zed component.Descriptor
	for d := range seq {
		if d.SimpleName() == "Zed" {
			zed = d
		}
	}
	assert.Equal(t, component.RoleService, zed.Role)
	assert.Equal(t, "zed", zed.ExplicitName)
}

func TestScanner_RootNotFound(t *testing.T) {
	_, err := scanner.New(newCatalog(t)).Scan("github.com/km-arc/go-mvc/nowhere")
	require.Error(t, err)

	var scanErr *scanner.ScanError
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, "github.com/km-arc/go-mvc/nowhere", scanErr.Root)
	assert.True(t, errors.Is(err, scanner.ErrRootNotFound))
}

func TestScanner_PartialSegmentIsNotARoot(t *testing.T) {
	_, err := scanner.New(newCatalog(t)).Names(fixtureRoot + "/alp")
	assert.ErrorIs(t, err, scanner.ErrRootNotFound)
}
