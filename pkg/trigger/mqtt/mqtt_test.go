package mqtt

import "testing"

// TestDeviceNameRegex checks the MQTT regex law from spec §8: any device
// name matching [A-Za-z0-9_-]+ is extracted from the update-result topic;
// anything else (notably a name containing '/') produces no match.
func TestDeviceNameRegex(t *testing.T) {
	cases := []struct {
		topic string
		want  string
		match bool
	}{
		{"$hw/events/device/dht11/twin/update/result", "dht11", true},
		{"$hw/events/device/dht-11_2/twin/update/result", "dht-11_2", true},
		{"$hw/events/device/a/b/twin/update/result", "", false},
		{"$hw/events/device//twin/update/result", "", false},
		{"$hw/events/device/dht11/twin/update/other", "", false},
	}

	for _, c := range cases {
		got := deviceNameRegex.FindStringSubmatch(c.topic)
		if !c.match {
			if got != nil {
				t.Errorf("topic %q: expected no match, got %v", c.topic, got)
			}
			continue
		}
		if got == nil {
			t.Fatalf("topic %q: expected match %q, got none", c.topic, c.want)
		}
		if got[1] != c.want {
			t.Errorf("topic %q: got %q, want %q", c.topic, got[1], c.want)
		}
	}
}
