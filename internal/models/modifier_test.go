package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModifierGroup_Validate(t *testing.T) {
	opts := []ModifierOption{{ID: "a"}, {ID: "b"}}

	tests := []struct {
		name    string
		group   ModifierGroup
		wantErr bool
	}{
		{name: "valid unlimited", group: ModifierGroup{ID: "g", Options: opts}},
		{name: "valid bounded", group: ModifierGroup{ID: "g", MinSelections: 1, MaxSelections: 2, IsRequired: true, Options: opts}},
		{name: "vacuous group", group: ModifierGroup{ID: "g", IsRequired: true, MinSelections: 1}},
		{name: "missing id", group: ModifierGroup{Options: opts}, wantErr: true},
		{name: "min above max", group: ModifierGroup{ID: "g", MinSelections: 3, MaxSelections: 2}, wantErr: true},
		{name: "min with unlimited max", group: ModifierGroup{ID: "g", MinSelections: 3}},
		{name: "required without min", group: ModifierGroup{ID: "g", IsRequired: true}, wantErr: true},
		{name: "duplicate option", group: ModifierGroup{ID: "g", Options: []ModifierOption{{ID: "a"}, {ID: "a"}}}, wantErr: true},
		{name: "option without id", group: ModifierGroup{ID: "g", Options: []ModifierOption{{Name: "x"}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.group.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidGroup)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestModifierGroup_Clone(t *testing.T) {
	g := ModifierGroup{ID: "g", Options: []ModifierOption{{ID: "a", PriceDelta: 100}}}
	c := g.Clone()
	c.Options[0].PriceDelta = 999

	assert.Equal(t, Money(100), g.Options[0].PriceDelta)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindDishNotFound, KindOf(ErrDishNotFound))
	assert.Equal(t, KindInternal, KindOf(assert.AnError))
	assert.Equal(t, KindInvalidGroup, KindOf(ModifierGroup{}.Validate()))
}
