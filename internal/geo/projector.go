package geo

import (
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"

	"github.com/shenikar/fire_command_center/internal/models"
)

const (
	// DefaultScale - единиц плоскости на градус. Точки демонстрационного набора
	// (в пределах ~0.03° от центра) при таком масштабе занимают большую часть кадра.
	DefaultScale = 2000.0

	// PlotSize - сторона номинальной плоскости отрисовки, центр в (50, 50)
	PlotSize = 100.0

	earthRadiusMeters = 6371008.8
)

// DefaultCenter - опорная точка карты (центр Сан-Паулу)
var DefaultCenter = models.Coordinates{Lat: -23.5505, Lon: -46.6333}

// Viewport - видимая область плоскости отрисовки
var Viewport = r2.Rect{
	X: r1.Interval{Lo: 0, Hi: PlotSize},
	Y: r1.Interval{Lo: 0, Hi: PlotSize},
}

// Projector переводит географические координаты в плоскость карты.
// Это плоская линейная аппроксимация, а не картографическая проекция.
type Projector struct {
	Center models.Coordinates
	Scale  float64
}

// New создает проектор с заданным центром и масштабом.
// Неположительный масштаб заменяется на DefaultScale.
func New(center models.Coordinates, scale float64) Projector {
	if scale <= 0 {
		scale = DefaultScale
	}
	return Projector{
		Center: center,
		Scale:  scale,
	}
}

// Default возвращает проектор с центром DefaultCenter и масштабом DefaultScale
func Default() Projector {
	return New(DefaultCenter, DefaultScale)
}

// Project возвращает точку плоскости для координаты. Точки далеко от центра
// могут оказаться за пределами Viewport, это допустимо.
func (p Projector) Project(c models.Coordinates) r2.Point {
	dx := (c.Lon - p.Center.Lon) * p.Scale
	// широта растет на север, экранный Y растет вниз
	dy := (p.Center.Lat - c.Lat) * p.Scale
	return r2.Point{X: PlotSize/2 + dx, Y: PlotSize/2 + dy}
}

// DistanceMeters - расстояние по большому кругу от центра карты до точки
func (p Projector) DistanceMeters(c models.Coordinates) float64 {
	from := s2.LatLngFromDegrees(p.Center.Lat, p.Center.Lon)
	to := s2.LatLngFromDegrees(c.Lat, c.Lon)
	return from.Distance(to).Radians() * earthRadiusMeters
}

// InView сообщает, попадает ли точка в видимую область
func InView(pt r2.Point) bool {
	return Viewport.ContainsPoint(pt)
}
