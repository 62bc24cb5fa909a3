package tacmap

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/fire_command_center/internal/geo"
	"github.com/shenikar/fire_command_center/internal/models"
)

func testVehicles() []models.Vehicle {
	ts := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	return []models.Vehicle{
		{ID: "V-01", Type: "Auto Bomba", Status: models.VehicleAvailable, Location: geo.DefaultCenter, LastUpdate: ts},
		{ID: "V-02", Type: "Resgate", Status: models.VehicleOnScene, Location: models.Coordinates{Lat: -23.562, Lon: -46.650}, LastUpdate: ts},
		{ID: "V-03", Type: "Auto Escada", Status: models.VehicleDispatched, Location: models.Coordinates{Lat: -23.558, Lon: -46.640}, LastUpdate: ts},
		{ID: "V-04", Type: "Tanque", Status: models.VehicleMaintenance, Location: models.Coordinates{Lat: -23.540, Lon: -46.620}, LastUpdate: ts},
	}
}

func testIncidents() []models.Incident {
	return []models.Incident{
		{ID: "I-100", Type: "Incêndio Estrutural", Priority: models.PriorityCritical, Status: models.StatusInProgress,
			Location: models.Coordinates{Lat: -23.562, Lon: -46.650}},
		{ID: "I-101", Type: "Colisão Veicular", Priority: models.PriorityHigh, Status: models.StatusNew,
			Location: models.Coordinates{Lat: -23.545, Lon: -46.625}},
		{ID: "I-102", Type: "Resgate Animal", Priority: models.PriorityLow, Status: models.StatusResolved,
			Location: models.Coordinates{Lat: -23.570, Lon: -46.660}},
		{ID: "I-103", Type: "Vazamento de Gás", Priority: models.PriorityMedium, Status: models.StatusClosed,
			Location: models.Coordinates{Lat: -23.552, Lon: -46.631}},
	}
}

func TestRender_OnlyActiveIncidents(t *testing.T) {
	r := NewRenderer(geo.Default())

	scene := r.Render(testVehicles(), testIncidents())

	require.Len(t, scene.Symbols, 6)
	_, ok := scene.Find(KindIncident, "I-100")
	assert.True(t, ok)
	_, ok = scene.Find(KindIncident, "I-101")
	assert.True(t, ok)
	_, ok = scene.Find(KindIncident, "I-102")
	assert.False(t, ok)
	_, ok = scene.Find(KindIncident, "I-103")
	assert.False(t, ok)
}

func TestRender_VehicleColors(t *testing.T) {
	r := NewRenderer(geo.Default())

	scene := r.Render(testVehicles(), nil)

	expected := map[string]string{
		"V-01": ColorVehicleAvailable,
		"V-02": ColorVehicleOnScene,
		"V-03": ColorVehicleOther,
		"V-04": ColorVehicleOther,
	}
	for id, color := range expected {
		sym, ok := scene.Find(KindVehicle, id)
		require.True(t, ok, id)
		assert.Equal(t, color, sym.Color, id)
	}
}

func TestRender_IncidentStyle(t *testing.T) {
	r := NewRenderer(geo.Default())

	scene := r.Render(nil, testIncidents())

	critical, _ := scene.Find(KindIncident, "I-100")
	high, _ := scene.Find(KindIncident, "I-101")
	assert.Equal(t, ColorIncident, critical.Color)
	assert.Equal(t, ColorIncident, high.Color)
	assert.True(t, critical.Pulse)
	assert.False(t, high.Pulse)
	assert.Equal(t, "Incêndio Estrutural", critical.Label)
}

func TestRender_PositionsFromProjector(t *testing.T) {
	p := geo.Default()
	r := NewRenderer(p)

	scene := r.Render(testVehicles(), nil)

	v1, _ := scene.Find(KindVehicle, "V-01")
	assert.Equal(t, r2.Point{X: 50, Y: 50}, v1.Position)
	assert.True(t, v1.InView)
}

func TestRender_ResolvedIncidentDisappearsWithoutSideEffects(t *testing.T) {
	// Подготовка
	r := NewRenderer(geo.Default())
	vehicles := testVehicles()
	incidents := testIncidents()

	before := r.Render(vehicles, incidents)
	_, ok := before.Find(KindIncident, "I-100")
	require.True(t, ok)

	// Действие
	incidents[0].Status = models.StatusResolved
	after := r.Render(vehicles, incidents)

	// Проверки
	_, ok = after.Find(KindIncident, "I-100")
	assert.False(t, ok)
	require.Len(t, after.Symbols, len(before.Symbols)-1)

	var rest []Symbol
	for _, sym := range before.Symbols {
		if sym.ID != "I-100" {
			rest = append(rest, sym)
		}
	}
	assert.Equal(t, rest, after.Symbols)
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	r := NewRenderer(geo.Default())
	incidents := testIncidents()
	incidents[0].AssignedVehicles = []string{"V-02"}

	scene := r.Render(nil, incidents)
	sym, _ := scene.Find(KindIncident, "I-100")
	sym.Incident.AssignedVehicles[0] = "changed"

	assert.Equal(t, "V-02", incidents[0].AssignedVehicles[0])
}

func TestHitTest_IncidentsAboveVehicles(t *testing.T) {
	r := NewRenderer(geo.Default())
	scene := r.Render(testVehicles(), testIncidents())

	// V-02 и I-100 находятся в одной точке
	pos := geo.Default().Project(models.Coordinates{Lat: -23.562, Lon: -46.650})
	sym, ok := scene.HitTest(pos)

	require.True(t, ok)
	assert.Equal(t, KindIncident, sym.Kind)
	assert.Equal(t, "I-100", sym.ID)
}

func TestHitTest_Miss(t *testing.T) {
	r := NewRenderer(geo.Default())
	scene := r.Render(testVehicles(), testIncidents())

	_, ok := scene.HitTest(r2.Point{X: 99, Y: 1})

	assert.False(t, ok)
}

func TestClick_InvokesCallbacks(t *testing.T) {
	// Подготовка
	var gotVehicle models.Vehicle
	var gotIncident models.Incident
	r := &Renderer{
		Projector:       geo.Default(),
		OnVehicleClick:  func(v models.Vehicle) { gotVehicle = v },
		OnIncidentClick: func(i models.Incident) { gotIncident = i },
	}
	scene := r.Render(testVehicles(), testIncidents())

	// Действие
	vehicleHit := r.Click(scene, r2.Point{X: 50, Y: 50})
	inc101 := scene.Symbols[len(scene.Symbols)-1]
	incidentHit := r.Click(scene, inc101.Position)
	miss := r.Click(scene, r2.Point{X: 1, Y: 99})

	// Проверки
	assert.True(t, vehicleHit)
	assert.Equal(t, "V-01", gotVehicle.ID)
	assert.Equal(t, "Auto Bomba", gotVehicle.Type)
	assert.True(t, incidentHit)
	assert.Equal(t, "I-101", gotIncident.ID)
	assert.Equal(t, models.PriorityHigh, gotIncident.Priority)
	assert.False(t, miss)
}

func TestClick_NilCallbacks(t *testing.T) {
	r := NewRenderer(geo.Default())
	scene := r.Render(testVehicles(), nil)

	assert.True(t, r.Click(scene, r2.Point{X: 50, Y: 50}))
}

func TestWriteSVG(t *testing.T) {
	r := NewRenderer(geo.Default())
	scene := r.Render(testVehicles(), testIncidents())
	scene.SelectedID = "I-101"

	var buf bytes.Buffer
	require.NoError(t, scene.WriteSVG(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, `viewBox="0 0 100 100"`)
	assert.Equal(t, 22, strings.Count(out, "<line "))
	assert.Equal(t, 3, strings.Count(out, `class="ring"`))
	assert.Equal(t, 4, strings.Count(out, `class="vehicle"`))
	assert.Equal(t, 2, strings.Count(out, `class="incident"`))
	assert.Equal(t, 1, strings.Count(out, `<animate attributeName="r"`))
	assert.Equal(t, 1, strings.Count(out, `class="selected"`))
	assert.Contains(t, out, "<title>V-01 · Auto Bomba (Disponível)</title>")
	assert.Contains(t, out, "<title>I-100 · Incêndio Estrutural (Crítica)</title>")
	assert.NotContains(t, out, "Resgate Animal")
}

func TestWriteSVG_EscapesLabels(t *testing.T) {
	r := NewRenderer(geo.Default())
	scene := r.Render(nil, []models.Incident{{
		ID: "I-1", Type: `<script>&"`, Priority: models.PriorityLow, Status: models.StatusNew, Location: geo.DefaultCenter,
	}})

	var buf bytes.Buffer
	require.NoError(t, scene.WriteSVG(&buf))

	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}
