package audiocodec

import "testing"

func TestChannelsFromWire(t *testing.T) {
	tests := []struct {
		in   uint32
		want Channels
	}{
		{0, Mono},
		{1, Mono},
		{2, Stereo},
		{3, Mono},
		{0xffffffff, Mono},
	}

	for _, tc := range tests {
		if got := ChannelsFromWire(tc.in); got != tc.want {
			t.Errorf("ChannelsFromWire(%d) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestApplicationFromWire(t *testing.T) {
	tests := []struct {
		in   uint32
		want Application
	}{
		{0, AppVoIP},
		{1, AppVoIP},
		{2, AppAudio},
		{3, AppLowDelay},
		{99, AppVoIP},
	}

	for _, tc := range tests {
		if got := ApplicationFromWire(tc.in); got != tc.want {
			t.Errorf("ApplicationFromWire(%d) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseApplication(t *testing.T) {
	for in, want := range map[string]Application{
		"voip":                AppVoIP,
		"AUDIO":               AppAudio,
		"restricted_lowdelay": AppLowDelay,
	} {
		got, err := ParseApplication(in)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("ParseApplication(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseApplication("music"); err == nil {
		t.Fatal("expected error for unknown application")
	}
}
