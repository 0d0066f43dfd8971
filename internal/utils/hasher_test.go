package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	a := Hash("⚡️ Новость дня\n\n#ДНР #Новости")
	b := Hash("  ⚡️ Новость дня #ДНР   #Новости ")

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Hash("⚡️ Другая новость #ДНР"))
}
