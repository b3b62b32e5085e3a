package common

import (
	"math"
	"strings"
	"testing"
)

var gaza = Coordinates{Lat: 31.5, Lon: 34.45}

func TestDistanceNm_MalformedInputs(t *testing.T) {
	inputs := []string{
		"",
		"31.5",
		"31.5, 34.45, 12",
		"abc, 34.45",
		"31.5, xyz",
		"lat lon",
		",",
	}

	for _, input := range inputs {
		d, display := DistanceNm(input, gaza)
		if d != nil || display != nil {
			t.Errorf("DistanceNm(%q) = (%v, %v), want (nil, nil)", input, d, display)
		}
	}
}

func TestDistanceNm_ZeroAtReference(t *testing.T) {
	d, display := DistanceNm("31.5, 34.45", gaza)
	if d == nil || display == nil {
		t.Fatal("expected a distance for the reference point itself")
	}
	if *d != 0 {
		t.Errorf("distance at reference = %v, want 0", *d)
	}
	if *display != "0 nm" {
		t.Errorf("display = %q, want %q", *display, "0 nm")
	}
}

func TestDistanceNm_OneDegreeOfLongitude(t *testing.T) {
	// One degree of longitude at latitude 31.5 is about 51.2 nm.
	d, display := DistanceNm("31.5, 33.45", gaza)
	if d == nil {
		t.Fatal("expected a distance")
	}
	if *d != 51.2 {
		t.Errorf("distance = %v, want 51.2", *d)
	}
	if *display != "51.2 nm" {
		t.Errorf("display = %q, want %q", *display, "51.2 nm")
	}
}

func TestDistanceNm_NonNegativeAndRounded(t *testing.T) {
	positions := []string{
		"31.7377, 33.4533",
		"-45.0, 170.0",
		"0, 0",
		"89.9, -179.9",
	}

	for _, pos := range positions {
		d, display := DistanceNm(pos, gaza)
		if d == nil || display == nil {
			t.Fatalf("DistanceNm(%q) unexpectedly nil", pos)
		}
		if *d < 0 {
			t.Errorf("DistanceNm(%q) = %v, want non-negative", pos, *d)
		}
		if rounded := math.Round(*d*10) / 10; rounded != *d {
			t.Errorf("DistanceNm(%q) = %v, not rounded to one decimal", pos, *d)
		}
		if !strings.HasSuffix(*display, " nm") {
			t.Errorf("display %q missing nm suffix", *display)
		}
	}
}

func TestDistanceNm_WhitespaceTolerant(t *testing.T) {
	d1, _ := DistanceNm("31.7377, 33.4533", gaza)
	d2, _ := DistanceNm("  31.7377 ,33.4533  ", gaza)
	if d1 == nil || d2 == nil {
		t.Fatal("expected distances")
	}
	if *d1 != *d2 {
		t.Errorf("whitespace changed result: %v vs %v", *d1, *d2)
	}
}
