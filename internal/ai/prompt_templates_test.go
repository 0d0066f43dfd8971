package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemInstructionContract(t *testing.T) {
	for _, key := range []string{`"title"`, `"summary"`, `"source"`, `"telegramPostDraft"`, `"timestamp"`} {
		assert.Contains(t, SystemInstruction, key)
	}
	assert.Contains(t, SystemInstruction, "6 to 12")
	assert.Contains(t, SystemInstruction, "Do not wrap it in markdown")
}

func TestBuildNewsPrompt(t *testing.T) {
	prompt := BuildNewsPrompt("Херсонская область")

	assert.Contains(t, prompt, "региона: Херсонская область.")
	assert.Contains(t, prompt, "24 часа")
	for _, category := range []string{"официальные заявления", "инфраструктура", "происшествия", "социальная сфера", "культура"} {
		assert.Contains(t, prompt, category)
	}
	assert.Equal(t, prompt, BuildNewsPrompt("Херсонская область"))
}

func TestBuildNewsPromptFlattensInput(t *testing.T) {
	prompt := BuildNewsPrompt("Запорожская\nобласть\t")
	assert.True(t, strings.Contains(prompt, "региона: Запорожская область."))
}
