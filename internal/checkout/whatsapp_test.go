package checkout

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsAppLink(t *testing.T) {
	order := ComposeOrder(sampleCart(), Customer{Name: "Lucia"})

	link, err := WhatsAppLink("5491155554444", order)
	require.NoError(t, err)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "api.whatsapp.com", parsed.Host)
	assert.Equal(t, "/send", parsed.Path)
	assert.Equal(t, "5491155554444", parsed.Query().Get("phone"))

	text := parsed.Query().Get("text")
	assert.Contains(t, text, "Antifaz")
	assert.Contains(t, text, "Total: $3301.00")
}

func TestWhatsAppLink_TextIsEncoded(t *testing.T) {
	order := ComposeOrder(sampleCart(), Customer{Name: "Lucia", Observations: "piso 3 & timbre"})

	link, err := WhatsAppLink("5491155554444", order)
	require.NoError(t, err)

	assert.False(t, strings.ContainsAny(link, " \n$"),
		"summary must be URL-encoded: %s", link)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Contains(t, parsed.Query().Get("text"), "piso 3 & timbre")
}

func TestWhatsAppLink_NameValidation(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"Lucia", false},
		{"Lu", false},
		{"  Lu  ", false},
		{"L", true},
		{" L ", true},
		{"", true},
		{"   ", true},
	}

	for _, tt := range tests {
		order := ComposeOrder(sampleCart(), Customer{Name: tt.name})
		_, err := WhatsAppLink("5491155554444", order)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrNameTooShort, "name %q", tt.name)
		} else {
			assert.NoError(t, err, "name %q", tt.name)
		}
	}
}
