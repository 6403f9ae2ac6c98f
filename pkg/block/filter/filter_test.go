package filter

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceBlocks/pkg/block"
)

func testDefs() []*block.Definition {
	return []*block.Definition{
		{
			Slug:     "pico-controller",
			Name:     "Pico Controller",
			Category: block.CategoryController,
			Bus: block.BusInterface{
				Provides: []block.PowerRail{{Rail: "+3V3", TypicalMA: 50, MaxMA: 300}},
				Pins:     []string{"BUS_SDA", "BUS_SCL"},
			},
		},
		{
			Slug:     "bme280-sensor",
			Name:     "BME280 Environmental Sensor",
			Category: block.CategorySensor,
			Bus: block.BusInterface{
				Requires: []block.PowerRail{{Rail: "+3V3", TypicalMA: 1, MaxMA: 4}},
				Pins:     []string{"BUS_SDA", "BUS_SCL"},
			},
		},
		{
			Slug:     "relay-actuator",
			Name:     "Relay Driver",
			Category: block.CategoryActuator,
			Bus: block.BusInterface{
				Requires: []block.PowerRail{{Rail: "+5V", TypicalMA: 30, MaxMA: 90}},
				Taps:     []block.Tap{{Net: "GPIO4"}},
			},
		},
	}
}

func evalAll(t *testing.T, expr string) []string {
	t.Helper()

	match, err := Compile(expr)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", expr, err)
	}

	var slugs []string
	for _, def := range testDefs() {
		if match(def) {
			slugs = append(slugs, def.Slug)
		}
	}
	return slugs
}

func TestFieldComparison(t *testing.T) {
	got := evalAll(t, `category == "sensor"`)
	if len(got) != 1 || got[0] != "bme280-sensor" {
		t.Errorf("Expected [bme280-sensor], got %v", got)
	}

	got = evalAll(t, `category != "sensor"`)
	if len(got) != 2 {
		t.Errorf("Expected 2 matches, got %v", got)
	}
}

func TestPredicates(t *testing.T) {
	got := evalAll(t, `provides("+3V3")`)
	if len(got) != 1 || got[0] != "pico-controller" {
		t.Errorf("Expected [pico-controller], got %v", got)
	}

	got = evalAll(t, `requires("+5V")`)
	if len(got) != 1 || got[0] != "relay-actuator" {
		t.Errorf("Expected [relay-actuator], got %v", got)
	}

	got = evalAll(t, `tap("GPIO4")`)
	if len(got) != 1 || got[0] != "relay-actuator" {
		t.Errorf("Expected [relay-actuator], got %v", got)
	}

	got = evalAll(t, `pin("BUS_SDA")`)
	if len(got) != 2 {
		t.Errorf("Expected 2 matches, got %v", got)
	}

	got = evalAll(t, `controller()`)
	if len(got) != 1 || got[0] != "pico-controller" {
		t.Errorf("Expected [pico-controller], got %v", got)
	}
}

func TestBooleanOperators(t *testing.T) {
	got := evalAll(t, `pin("BUS_SDA") && !controller()`)
	if len(got) != 1 || got[0] != "bme280-sensor" {
		t.Errorf("Expected [bme280-sensor], got %v", got)
	}

	got = evalAll(t, `category == "sensor" || category == "actuator"`)
	if len(got) != 2 {
		t.Errorf("Expected 2 matches, got %v", got)
	}

	got = evalAll(t, `(controller() || tap("GPIO4")) && requires("+5V")`)
	if len(got) != 1 || got[0] != "relay-actuator" {
		t.Errorf("Expected [relay-actuator], got %v", got)
	}
}

func TestCaseInsensitiveMatch(t *testing.T) {
	got := evalAll(t, `slug == "PICO-CONTROLLER"`)
	if len(got) != 1 || got[0] != "pico-controller" {
		t.Errorf("Expected [pico-controller], got %v", got)
	}
}

func TestCompileErrors(t *testing.T) {
	badExprs := []string{
		`bogus == "x"`,
		`explode("now")`,
		`provides()`,
		`category ==`,
	}

	for _, expr := range badExprs {
		if _, err := Compile(expr); err == nil {
			t.Errorf("Expected error for %q, got none", expr)
		}
	}
}
