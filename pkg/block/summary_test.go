package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummary(t *testing.T) {
	def := &Definition{
		Slug:     "bme280-sensor",
		Name:     "BME280 Environmental Sensor",
		Category: CategorySensor,
		Width:    1,
		Height:   2,
		Bus: BusInterface{
			Requires:   []PowerRail{{Rail: "+3V3", TypicalMA: 1, MaxMA: 4}},
			Addresses:  []BusAddress{{Bus: "i2c", Address: 0x76, Configurable: true}},
			ChipSelect: "CS1",
			Pins:       []string{"BUS_SDA", "BUS_SCL"},
			Taps:       []Tap{{Net: "BUS_SDA"}},
		},
		Edges: EdgeConnections{
			West: []EdgeConnection{{Net: "BUS_SDA", Offset: 5, Layer: "F.Cu"}},
		},
		Components: []Component{{Reference: "U1", Value: "BME280", Footprint: "LGA-8"}},
	}

	out := Summary(def)

	assert.Contains(t, out, "BME280 Environmental Sensor (bme280-sensor)")
	assert.Contains(t, out, "Category: sensor")
	assert.Contains(t, out, "1x2 grid units (12.7x25.4 mm)")
	assert.Contains(t, out, "+3V3: 1.0mA typical, 4.0mA max")
	assert.Contains(t, out, "i2c 0x76 (configurable)")
	assert.Contains(t, out, "Chip select: CS1")
	assert.Contains(t, out, "Claimed pins: BUS_SDA, BUS_SCL")
	assert.Contains(t, out, "Bus taps: BUS_SDA")
	assert.Contains(t, out, "Edge west:")
	assert.Contains(t, out, "BUS_SDA at 5.00mm on F.Cu")
	assert.Contains(t, out, "U1: BME280 (LGA-8)")
}

func TestSummaryOmitsEmptySections(t *testing.T) {
	def := &Definition{
		Slug:     "blank",
		Name:     "Blank",
		Category: CategoryIO,
		Width:    1,
		Height:   1,
	}

	out := Summary(def)

	assert.NotContains(t, out, "Provides:")
	assert.NotContains(t, out, "Requires:")
	assert.NotContains(t, out, "Bus addresses:")
	assert.NotContains(t, out, "Chip select:")
	assert.NotContains(t, out, "Edge")
	assert.NotContains(t, out, "Components")
}

func TestDefinitionHelpers(t *testing.T) {
	c := &Definition{Category: CategoryController, Width: 2, Height: 3}
	assert.True(t, c.IsController())
	assert.Equal(t, 6, c.Area())

	s := &Definition{Category: CategorySensor, Width: 1, Height: 1}
	assert.False(t, s.IsController())
}
