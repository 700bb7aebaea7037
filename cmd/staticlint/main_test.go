package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectStaticcheck(t *testing.T) {
	selected := selectStaticcheck([]string{"SA4006", "SA9999"})
	if assert.Len(t, selected, 1) {
		assert.Equal(t, "SA4006", selected[0].Name)
	}

	for _, analyzer := range selectStaticcheck(nil) {
		assert.Regexp(t, `^SA\d+$`, analyzer.Name)
	}
	assert.NotEmpty(t, selectStaticcheck(nil))
}
