package property

import (
	"encoding/json"
	"testing"

	"agrovision/entities"
)

func geom(typ, coords string) entities.Geometry {
	return entities.Geometry{Type: typ, Coordinates: json.RawMessage(coords)}
}

const square = `[[[-47,-22],[-46,-22],[-46,-21],[-47,-21],[-47,-22]]]`

func TestValidateGeometry(t *testing.T) {
	tests := []struct {
		name    string
		g       entities.Geometry
		wantErr bool
	}{
		{"polygon", geom("Polygon", square), false},
		{"multipolygon", geom("MultiPolygon", "["+square+"]"), false},
		{"point type", geom("Point", `[1,2]`), true},
		{"open ring", geom("Polygon", `[[[-47,-22],[-46,-22],[-46,-21],[-47,-21]]]`), true},
		{"too few", geom("Polygon", `[[[-47,-22],[-46,-22],[-47,-22]]]`), true},
		{"out of range", geom("Polygon", `[[[-200,-22],[-46,-22],[-46,-21],[-200,-22]]]`), true},
		{"garbage", geom("Polygon", `"x"`), true},
		{"empty", geom("Polygon", `[]`), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateGeometry(tt.g)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGeometry() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	p, err := Centroid(geom("Polygon", square))
	if err != nil {
		t.Fatal(err)
	}
	if p.Type != "Point" || p.Coordinates != [2]float64{-46.5, -21.5} {
		t.Errorf("Centroid() = %+v", p)
	}
}
