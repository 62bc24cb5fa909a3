package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/fire_command_center/internal/models"
)

func sampleIncidents() []models.Incident {
	return []models.Incident{
		{ID: "I-100", Type: "Incêndio Estrutural", Address: "Av. Paulista, 1000", Status: models.StatusInProgress},
		{ID: "I-101", Type: "Colisão Veicular", Address: "Radial Leste, Km 2", Status: models.StatusNew},
		{ID: "I-102", Type: "Resgate Animal", Address: "Rua Oscar Freire, 500", Status: models.StatusResolved},
		{ID: "I-103", Type: "Vazamento de Gás", Address: "Rua Augusta, 20", Status: models.StatusClosed},
	}
}

func ids(incidents []models.Incident) []string {
	out := make([]string, 0, len(incidents))
	for _, inc := range incidents {
		out = append(out, inc.ID)
	}
	return out
}

func TestFilter_ActiveExcludesTerminal(t *testing.T) {
	got := Filter(sampleIncidents(), FilterActive, "")

	assert.Equal(t, []string{"I-100", "I-101"}, ids(got))
	for _, inc := range sampleIncidents() {
		assert.Equal(t, !inc.Status.Terminal(), IsActive(inc))
	}
}

func TestFilter_AllKeepsEverything(t *testing.T) {
	got := Filter(sampleIncidents(), FilterAll, "")

	assert.Equal(t, []string{"I-100", "I-101", "I-102", "I-103"}, ids(got))
}

func TestFilter_Search(t *testing.T) {
	assert.Equal(t, []string{"I-100"}, ids(Filter(sampleIncidents(), FilterAll, "paulista")))
	assert.Equal(t, []string{"I-102"}, ids(Filter(sampleIncidents(), FilterAll, "i-102")))
	assert.Equal(t, []string{"I-101"}, ids(Filter(sampleIncidents(), FilterAll, "COLISÃO")))
	assert.Empty(t, Filter(sampleIncidents(), FilterActive, "animal"))
}

func TestParseFilterMode(t *testing.T) {
	m, err := ParseFilterMode("ACTIVE")
	require.NoError(t, err)
	assert.Equal(t, FilterActive, m)

	m, err = ParseFilterMode("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, m)

	_, err = ParseFilterMode("closed")
	assert.Error(t, err)
}

func TestShareURL(t *testing.T) {
	inc := models.Incident{
		Type:     "Incêndio",
		Priority: models.PriorityCritical,
		Status:   models.StatusInProgress,
		Address:  "Av. Paulista, 1000",
		Location: models.Coordinates{Lat: -23.562, Lon: -46.65},
	}

	text := ShareText(inc)
	assert.Contains(t, text, "*Prioridade:* Crítica")
	assert.Contains(t, text, "*Status:* Em Atendimento")
	assert.Contains(t, text, "https://maps.google.com/?q=-23.562,-46.65")
	assert.Contains(t, ShareURL(inc), "https://web.whatsapp.com/send?text=")
}
