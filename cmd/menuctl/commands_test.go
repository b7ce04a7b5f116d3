package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
	"github.com/Lixing-Zhang/storefront-menu/internal/propagation"
	"github.com/Lixing-Zhang/storefront-menu/internal/service"
)

const sampleMenu = "../../internal/seed/testdata/menu.yaml"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--menu", sampleMenu, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestResolve(t *testing.T) {
	out, err := run(t, "resolve", "--dish", "margherita")
	require.NoError(t, err)

	var dish service.MenuDish
	require.NoError(t, json.Unmarshal([]byte(out), &dish))
	ids := make([]string, 0)
	for _, g := range dish.Schema.Groups {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []string{"tpl-size", "tpl-toppings", "grp-crust"}, ids)

	_, err = run(t, "resolve", "--dish", "ghost")
	assert.ErrorIs(t, err, models.ErrDishNotFound)

	_, err = run(t, "resolve")
	assert.Error(t, err)
}

func TestPrice(t *testing.T) {
	out, err := run(t, "price", "--dish", "margherita", "--size", "Large",
		"--selection", `{"tpl-size":[{"optionId":"opt-large"}],"tpl-toppings":[{"optionId":"opt-cheese","quantity":2}]}`)
	require.NoError(t, err)

	var preview service.PricePreview
	require.NoError(t, json.Unmarshal([]byte(out), &preview))
	assert.True(t, preview.Validation.IsValid)
	// 14.00 + 2.00 large + one paid extra cheese 1.50
	assert.Equal(t, models.Money(1750), preview.Price.TotalPrice)
	assert.Equal(t, "USD", preview.Price.Currency)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	selFile := filepath.Join(dir, "sel.json")
	require.NoError(t, os.WriteFile(selFile, []byte(`{"tpl-size":[{"optionId":"opt-small"}]}`), 0o644))

	_, err := run(t, "validate", "--dish", "calzone", "--selection", "@"+selFile)
	assert.NoError(t, err)

	out, err := run(t, "validate", "--dish", "calzone", "--selection", `{"tpl-toppings":[{"optionId":"opt-olives","quantity":4}]}`)
	require.Error(t, err)

	var result models.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Errors, 2)
	assert.Equal(t, models.KindMissingRequiredGroup, result.Errors[0].Kind)
	assert.Equal(t, models.KindAboveMaximum, result.Errors[1].Kind)

	_, err = run(t, "validate", "--dish", "calzone", "--selection", "{not json")
	assert.ErrorContains(t, err, "parse selection")
}

func TestDetach(t *testing.T) {
	out, err := run(t, "detach", "--dish", "calzone")
	require.NoError(t, err)

	var result propagation.DetachResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.CopiedGroups, 2)
	for _, g := range result.Schema.Groups {
		assert.Equal(t, models.OriginDishCustom, g.Origin.Kind)
	}

	_, err = run(t, "detach", "--dish", "seasonal")
	assert.ErrorIs(t, err, models.ErrAlreadyDetached)
}

func TestMissingMenu(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"resolve", "--dish", "margherita"})
	assert.ErrorContains(t, cmd.Execute(), "--menu")
}

func TestVersion(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "menuctl version")
}
