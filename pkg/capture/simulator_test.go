package capture

import "testing"

func TestSimulateUnknownAttack(t *testing.T) {
	s := NewSimulator(1, nil)
	if packets := s.Simulate("teleport", IntensityLow); packets != nil {
		t.Fatalf("unknown attack produced %d packets", len(packets))
	}
}

func TestSimulatePortScanShape(t *testing.T) {
	s := NewSimulator(1, nil)
	packets := s.Simulate(AttackPortScan, IntensityMedium)
	if len(packets) != 100 {
		t.Fatalf("got %d packets, want 100", len(packets))
	}

	src := packets[0].SrcIP
	dstPorts := make(map[int]struct{})
	for _, p := range packets {
		if p.SrcIP != src {
			t.Error("port scan should come from a single source")
		}
		if p.Protocol != "TCP" || !p.HasFlag("SYN") {
			t.Error("port scan packets should be bare TCP SYNs")
		}
		if p.PayloadSize != 0 {
			t.Error("scan probes should carry no payload")
		}
		dstPorts[p.DstPort] = struct{}{}
	}
	if len(dstPorts) < 50 {
		t.Errorf("scan swept only %d distinct ports", len(dstPorts))
	}
}

func TestSimulateDoSShape(t *testing.T) {
	s := NewSimulator(2, nil)
	packets := s.Simulate(AttackDoS, IntensityLow)
	if len(packets) != 200 {
		t.Fatalf("got %d packets, want 200", len(packets))
	}

	srcIPs := make(map[string]struct{})
	for _, p := range packets {
		srcIPs[p.SrcIP] = struct{}{}
		if p.DstIP != "192.168.1.10" {
			t.Error("dos traffic should converge on one target")
		}
	}
	if len(srcIPs) < 50 {
		t.Errorf("dos used only %d spoofed sources", len(srcIPs))
	}
}

func TestSimulateIntensityScaling(t *testing.T) {
	s := NewSimulator(3, nil)
	low := len(s.Simulate(AttackBruteForce, IntensityLow))
	medium := len(s.Simulate(AttackBruteForce, IntensityMedium))
	high := len(s.Simulate(AttackBruteForce, IntensityHigh))
	if !(low < medium && medium < high) {
		t.Errorf("intensity not monotonic: %d, %d, %d", low, medium, high)
	}
}

func TestSimulateEventsMatchAttack(t *testing.T) {
	s := NewSimulator(4, nil)
	events := s.SimulateEvents(AttackSQLInjection, 10)
	if len(events) != 10 {
		t.Fatalf("got %d events, want 10", len(events))
	}
	for _, ev := range events {
		if ev.Severity != "CRITICAL" {
			t.Errorf("sql injection event severity = %q", ev.Severity)
		}
		if len(ev.Indicators) != 1 || ev.Indicators[0] != IndicatorSQLInjection {
			t.Errorf("indicators = %v", ev.Indicators)
		}
	}
}

func TestMockSnifferBenignTraffic(t *testing.T) {
	ms := NewMockSniffer(5, nil)
	packets := ms.Capture(50)
	if len(packets) != 50 {
		t.Fatalf("got %d packets, want 50", len(packets))
	}
	for _, p := range packets {
		if p.Protocol == "" || p.Size <= 0 {
			t.Errorf("malformed packet: %+v", p)
		}
	}

	events := ms.CaptureEvents(10)
	if len(events) != 10 {
		t.Fatalf("got %d events, want 10", len(events))
	}
}
