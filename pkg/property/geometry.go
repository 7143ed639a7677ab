// Package property holds the property module. This file validates GeoJSON
// footprints and derives their centroid.
package property

import (
	"encoding/json"
	"fmt"

	"agrovision/entities"
	"agrovision/pkg/apperr"
)

type ring [][2]float64

// ValidateGeometry checks the type and the coordinate shape. Every ring must
// have at least four positions and be closed.
func ValidateGeometry(g entities.Geometry) ([]ring, error) {
	var rings []ring
	switch g.Type {
	case "Polygon":
		var poly []ring
		if err := json.Unmarshal(g.Coordinates, &poly); err != nil {
			return nil, apperr.Validation("geom.coordinates inválido para Polygon")
		}
		rings = poly
	case "MultiPolygon":
		var multi [][]ring
		if err := json.Unmarshal(g.Coordinates, &multi); err != nil {
			return nil, apperr.Validation("geom.coordinates inválido para MultiPolygon")
		}
		for _, poly := range multi {
			rings = append(rings, poly...)
		}
	default:
		return nil, apperr.Validation("geom.type deve ser Polygon ou MultiPolygon")
	}
	if len(rings) == 0 {
		return nil, apperr.Validation("geom.coordinates vazio")
	}
	for i, r := range rings {
		if len(r) < 4 {
			return nil, apperr.Validation(fmt.Sprintf("geom: anel %d precisa de ao menos 4 posições", i))
		}
		if r[0] != r[len(r)-1] {
			return nil, apperr.Validation(fmt.Sprintf("geom: anel %d não está fechado", i))
		}
		for _, pos := range r {
			if pos[0] < -180 || pos[0] > 180 || pos[1] < -90 || pos[1] > 90 {
				return nil, apperr.Validation("geom: coordenada fora dos limites lon/lat")
			}
		}
	}
	return rings, nil
}

// Centroid averages the vertices of the outer rings, skipping each closing
// position. Good enough for map pins on farm-sized polygons.
func Centroid(g entities.Geometry) (*entities.Point, error) {
	var outer []ring
	switch g.Type {
	case "Polygon":
		var poly []ring
		if err := json.Unmarshal(g.Coordinates, &poly); err != nil {
			return nil, err
		}
		if len(poly) > 0 {
			outer = append(outer, poly[0])
		}
	case "MultiPolygon":
		var multi [][]ring
		if err := json.Unmarshal(g.Coordinates, &multi); err != nil {
			return nil, err
		}
		for _, poly := range multi {
			if len(poly) > 0 {
				outer = append(outer, poly[0])
			}
		}
	}
	var lon, lat float64
	n := 0
	for _, r := range outer {
		if len(r) < 2 {
			continue
		}
		for _, pos := range r[:len(r)-1] {
			lon += pos[0]
			lat += pos[1]
			n++
		}
	}
	if n == 0 {
		return nil, fmt.Errorf("centroid: no vertices")
	}
	return &entities.Point{Type: "Point", Coordinates: [2]float64{lon / float64(n), lat / float64(n)}}, nil
}
