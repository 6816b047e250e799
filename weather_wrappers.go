package main

import "fmt"

// MapLayer describes a weather overlay the dashboard map can draw. TilePath
// points at the local tile proxy so the provider key stays server side.
type MapLayer struct {
	Name     string  `json:"name"`
	Layer    string  `json:"layer"`
	TilePath string  `json:"tile_path"`
	Opacity  float64 `json:"opacity"`
}

const (
	mapLayerOpacity = 0.6
	defaultMapZoom  = 5
)

// mapLayerCatalog lists the overlays in display order.
var mapLayerCatalog = []struct {
	name  string
	layer string
}{
	{"Temperature", "temp_new"},
	{"Precipitation", "precipitation_new"},
	{"Clouds", "clouds_new"},
}

// WrapMapLayers returns the overlay catalog with tile path templates.
func WrapMapLayers() []MapLayer {
	layers := make([]MapLayer, len(mapLayerCatalog))
	for i, l := range mapLayerCatalog {
		layers[i] = MapLayer{
			Name:     l.name,
			Layer:    l.layer,
			TilePath: fmt.Sprintf("/tiles/%s/{z}/{x}/{y}", l.layer),
			Opacity:  mapLayerOpacity,
		}
	}
	return layers
}

func isKnownLayer(layer string) bool {
	for _, l := range mapLayerCatalog {
		if l.layer == layer {
			return true
		}
	}
	return false
}
