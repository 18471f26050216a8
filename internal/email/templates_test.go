package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderCredentialsTemplate(t *testing.T) {
	html, err := renderEmailTemplate("credentials.html", credentialsEmailData{
		baseEmailData: baseEmailData{Title: "Credencials", Heading: "Benvingut"},
		CompanyName:   "Acme Corp",
		Username:      "maria@acme.example",
		Password:      "ACM290826K7",
	})
	require.NoError(t, err)
	require.Contains(t, html, "Acme Corp")
	require.Contains(t, html, "maria@acme.example")
	require.Contains(t, html, "ACM290826K7")
	require.Contains(t, html, "Benvingut")
}

func TestRenderPressupostTemplate(t *testing.T) {
	html, err := renderEmailTemplate("pressupost.html", pressupostEmailData{
		baseEmailData:  baseEmailData{Title: "Pressupost", Heading: "Pressupost"},
		CompanyName:    "Acme Corp",
		PlanName:       "Pro",
		ExtraNames:     []string{"Suport prioritari", "Informes avançats"},
		TotalFormatted: formatCurrencyEUR(27500),
		Notes:          "Validesa de 30 dies.",
	})
	require.NoError(t, err)
	require.Contains(t, html, "Pro")
	require.Contains(t, html, "Suport prioritari")
	require.Contains(t, html, "275.00 €")
	require.Contains(t, html, "Validesa de 30 dies.")
}

func TestRenderPressupostTemplateWithoutExtras(t *testing.T) {
	html, err := renderEmailTemplate("pressupost.html", pressupostEmailData{
		baseEmailData:  baseEmailData{Title: "Pressupost", Heading: "Pressupost"},
		CompanyName:    "Acme Corp",
		PlanName:       "Bàsic",
		TotalFormatted: formatCurrencyEUR(9900),
	})
	require.NoError(t, err)
	require.NotContains(t, html, "Serveis extres")
	require.Contains(t, html, "99.00 €")
}

func TestRenderConversioTemplate(t *testing.T) {
	html, err := renderEmailTemplate("conversio.html", conversioEmailData{
		baseEmailData: baseEmailData{Title: "Conversió", Heading: "Conversió completada"},
		CompanyName:   "Acme Corp",
		UsersCreated:  3,
	})
	require.NoError(t, err)
	require.Contains(t, html, "Acme Corp")
	require.True(t, strings.Contains(html, "3"))
}

func TestFormatCurrencyEUR(t *testing.T) {
	require.Equal(t, "0.00 €", formatCurrencyEUR(0))
	require.Equal(t, "0.50 €", formatCurrencyEUR(50))
	require.Equal(t, "200.00 €", formatCurrencyEUR(20000))
}
