package workflow

import (
	"reflect"
	"testing"
)

func TestExpandCodesDedupsAndPreservesOrder(t *testing.T) {
	presets := map[string][]string{"pair": {"USA", "GBR"}}
	codes, dropped := expandCodes([]string{"usa", "pair", "gbr"}, presets, 10)
	if len(dropped) != 0 {
		t.Fatalf("expected nothing dropped, got %v", dropped)
	}
	want := []string{"USA", "GBR"}
	if !reflect.DeepEqual(codes, want) {
		t.Fatalf("expected %v, got %v", want, codes)
	}
}

func TestExpandCodesClampsToMax(t *testing.T) {
	codes, dropped := expandCodes([]string{"USA", "GBR", "JPN"}, nil, 2)
	if len(codes) != 2 {
		t.Fatalf("expected 2 codes after clamp, got %d: %v", len(codes), codes)
	}
	if len(dropped) != 1 || dropped[0] != "JPN" {
		t.Fatalf("expected JPN dropped, got %v", dropped)
	}
}

func TestExpandCodesSkipsBlankEntries(t *testing.T) {
	codes, _ := expandCodes([]string{" ", "usa", ""}, nil, 10)
	if !reflect.DeepEqual(codes, []string{"USA"}) {
		t.Fatalf("expected [USA], got %v", codes)
	}
}

func TestExpandCodesUnknownPresetFallsBackToLiteralCode(t *testing.T) {
	codes, _ := expandCodes([]string{"g7"}, map[string][]string{"brics": {"BRA"}}, 10)
	if !reflect.DeepEqual(codes, []string{"G7"}) {
		t.Fatalf("expected literal code G7 when preset name is unrecognized, got %v", codes)
	}
}

func TestCountryGDPTableCoversEveryVariant(t *testing.T) {
	row, ok := countryGDPTable["USA"]
	if !ok {
		t.Fatal("expected USA in countryGDPTable")
	}
	for variant := range gdpVariantIndicator {
		if _, ok := row.Series[variant]; !ok {
			t.Errorf("USA missing series id for variant %q", variant)
		}
	}
}

func TestRegionInflationTableCoversEveryPreset(t *testing.T) {
	for preset, codes := range regionPresets {
		for _, code := range codes {
			if _, ok := regionInflationTable[code]; !ok {
				t.Errorf("preset %q references unmapped region %q", preset, code)
			}
		}
	}
}

func TestCountryPresetsCoverEveryGDPTableEntry(t *testing.T) {
	for preset, codes := range countryPresets {
		for _, code := range codes {
			if _, ok := countryGDPTable[code]; !ok {
				t.Errorf("preset %q references unmapped country %q", preset, code)
			}
		}
	}
}
