package hype

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dobosmarton/gaffer-app/app/models"
)

func TestEveryStyleHasPromptAndDisplayName(t *testing.T) {
	styles := []string{
		models.STYLE_FERGUSON,
		models.STYLE_KLOPP,
		models.STYLE_GUARDIOLA,
		models.STYLE_MOURINHO,
		models.STYLE_BIELSA,
	}

	for _, style := range styles {
		assert.NotEmpty(t, ManagerStyles[style], "missing prompt for %s", style)
		assert.NotEmpty(t, ManagerDisplayNames[style], "missing display name for %s", style)
	}
}

func TestStylePromptFallsBackToFerguson(t *testing.T) {
	assert.Equal(t, ManagerStyles[models.STYLE_FERGUSON], StylePrompt("unknown-style"))
	assert.Equal(t, ManagerStyles[models.STYLE_KLOPP], StylePrompt(models.STYLE_KLOPP))
}
