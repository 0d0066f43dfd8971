package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		wantOK   bool
		wantFull string
	}{
		{name: "exact key", key: "DNR", wantOK: true, wantFull: "Донецкая Народная Республика"},
		{name: "lower case", key: "lnr", wantOK: true, wantFull: "Луганская Народная Республика"},
		{name: "padded", key: "  zo ", wantOK: true, wantFull: "Запорожская область"},
		{name: "unknown", key: "XX", wantOK: false},
		{name: "empty", key: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := Lookup(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantFull, r.FullName)
			}
		})
	}
}

func TestAllIsACopy(t *testing.T) {
	all := All()
	require.Len(t, all, 4)

	all[0].Name = "changed"
	again := All()
	assert.Equal(t, "ДНР", again[0].Name)
}

func TestKeysOrder(t *testing.T) {
	assert.Equal(t, []string{DNR, LNR, ZO, HO}, Keys())
	assert.True(t, Valid("ho"))
	assert.False(t, Valid("kherson"))
}
