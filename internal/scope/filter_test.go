package scope

import "testing"

func TestInScope_Broad(t *testing.T) {
	t.Parallel()

	f := NewFilter(nil)

	cases := []struct {
		name    string
		title   string
		summary string
		want    bool
	}{
		{"bci term", "A new brain-computer interface for speech", "", true},
		{"abbreviation", "BCI decoding advances", "", true},
		{"intracranial", "", "recordings from intracranial EEG electrodes", true},
		{"unrelated", "Stock market rallies on tech earnings", "quarterly results", false},
		{"empty", "", "", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := f.InScope(tc.title, tc.summary, ""); got != tc.want {
				t.Fatalf("InScope(%q, %q) = %v, want %v", tc.title, tc.summary, got, tc.want)
			}
		})
	}
}

func TestInScope_SourceFieldCounts(t *testing.T) {
	t.Parallel()

	f := NewFilter(nil)
	if !f.InScope("Weekly roundup", "", "Neural Implant Digest") {
		t.Fatalf("expected source text to participate in the broad match")
	}
}

func TestStrictlyInScope(t *testing.T) {
	t.Parallel()

	f := NewFilter(nil)

	if !f.StrictlyInScope("Utah array longevity in primates", "", "") {
		t.Fatalf("expected strict match on microelectrode hardware")
	}
	if f.StrictlyInScope("A clinical trial of a new antidepressant", "", "") {
		t.Fatalf("clinical-trial language alone must not satisfy strict scope")
	}
}

func TestHasDisqualifying(t *testing.T) {
	t.Parallel()

	f := NewFilter(nil)

	if !f.HasDisqualifying("TMS for depression", "transcranial magnetic stimulation trial") {
		t.Fatalf("expected TMS to be disqualifying")
	}
	if f.HasDisqualifying("ECoG speech decoding", "implanted electrode grid") {
		t.Fatalf("implanted recording work must not be disqualifying")
	}
}

func TestNewFilter_ExtraTermsWidenBroadOnly(t *testing.T) {
	t.Parallel()

	f := NewFilter([]string{"stentrode", "ab"})

	if !f.InScope("Stentrode feasibility results", "", "") {
		t.Fatalf("expected vocabulary term to widen broad scope")
	}
	if f.StrictlyInScope("Stentrode feasibility results", "", "") {
		t.Fatalf("vocabulary terms must not widen strict scope")
	}
	if f.InScope("ab testing for landing pages", "", "") {
		t.Fatalf("terms under three characters must be dropped")
	}
}
