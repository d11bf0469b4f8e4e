package sites

import "testing"

func TestCleanPrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"€ 7.450,-", 7450, true},
		{"€7.450,50", 7450.50, true},
		{"1.234.567", 1234567, true},
		{"450", 450, true},
		{"Bieden", 0, false},
		{"", 0, false},
		{"€ 0", 0, false},
	}

	for _, tc := range cases {
		got := CleanPrice(tc.in)
		if !tc.ok {
			if got != nil {
				t.Errorf("CleanPrice(%q) = %v, want nil", tc.in, *got)
			}
			continue
		}
		if got == nil {
			t.Errorf("CleanPrice(%q) = nil, want %v", tc.in, tc.want)
			continue
		}
		if *got != tc.want {
			t.Errorf("CleanPrice(%q) = %v, want %v", tc.in, *got, tc.want)
		}
	}
}

func TestCleanMileage(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"123.456 km", 123456, true},
		{"85000", 85000, true},
		{"85.000km", 85000, true},
		{"n.o.t.k.", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		got := CleanMileage(tc.in)
		if !tc.ok {
			if got != nil {
				t.Errorf("CleanMileage(%q) = %v, want nil", tc.in, *got)
			}
			continue
		}
		if got == nil || *got != tc.want {
			t.Errorf("CleanMileage(%q) = %v, want %d", tc.in, got, tc.want)
		}
	}
}

func TestCleanYearRejectsImplausible(t *testing.T) {
	if got := CleanYear("2015"); got == nil || *got != 2015 {
		t.Fatalf("CleanYear(2015) = %v", got)
	}
	if got := CleanYear("1850"); got != nil {
		t.Fatalf("CleanYear(1850) = %v, want nil", *got)
	}
	if got := CleanYear("3025"); got != nil {
		t.Fatalf("CleanYear(3025) = %v, want nil", *got)
	}
}

func TestExtractMileage(t *testing.T) {
	got := ExtractMileage("Benzine | 123.456 km | 2015")
	if got == nil || *got != 123456 {
		t.Fatalf("ExtractMileage = %v, want 123456", got)
	}
	if got := ExtractMileage("geen kilometerstand"); got != nil {
		t.Fatalf("ExtractMileage = %v, want nil", *got)
	}
}

func TestExtractYear(t *testing.T) {
	got := ExtractYear("Benzine | 123.456 km | 2015")
	if got == nil || *got != 2015 {
		t.Fatalf("ExtractYear = %v, want 2015", got)
	}
}

func TestExtractMakeModel(t *testing.T) {
	cases := []struct {
		title     string
		wantMake  string
		wantModel string
	}{
		{"BMW 3 Serie 320i lichte schade", "BMW", "3 Serie"},
		{"Alfa Romeo 147 1.6 TS", "Alfa Romeo", "147 1.6"},
		{"Mooie VW Golf 7", "Volkswagen", "Golf 7"},
		{"Mercedes C-klasse", "Mercedes-Benz", "C-klasse"},
		// "kia" also sits inside "Skialpin"; the model must follow the
		// standalone make, not the first substring hit.
		{"Dakkoffer Skialpin voor Kia Picanto", "Kia", "Picanto"},
		{"Scootmobiel met krasjes", "", ""},
	}

	for _, tc := range cases {
		gotMake, gotModel := ExtractMakeModel(tc.title)
		if gotMake != tc.wantMake || gotModel != tc.wantModel {
			t.Errorf("ExtractMakeModel(%q) = (%q, %q), want (%q, %q)",
				tc.title, gotMake, gotModel, tc.wantMake, tc.wantModel)
		}
	}
}
