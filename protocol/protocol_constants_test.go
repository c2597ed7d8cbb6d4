package protocol

import "testing"

func TestMessageConstants(t *testing.T) {
	pairs := map[string]string{
		MsgHello:    "hello",
		MsgInput:    "input",
		MsgReset:    "reset",
		MsgSpecial:  "special",
		MsgWelcome:  "welcome",
		MsgState:    "state",
		MsgGoal:     "goal",
		MsgMatchEnd: "matchEnd",
	}
	for got, want := range pairs {
		if got != want {
			t.Fatalf("message constant = %q, want %q", got, want)
		}
	}
}

func TestTimingConstants(t *testing.T) {
	if SimTickHz != 120 {
		t.Fatalf("SimTickHz = %d, want %d", SimTickHz, 120)
	}
	if ConsumerHz != 60 {
		t.Fatalf("ConsumerHz = %d, want %d", ConsumerHz, 60)
	}
	if BroadcastHz != 20 {
		t.Fatalf("BroadcastHz = %d, want %d", BroadcastHz, 20)
	}
}

func TestTimingSanity(t *testing.T) {
	if SimTickHz <= 0 || ConsumerHz <= 0 || BroadcastHz <= 0 {
		t.Fatalf("timing constants must be > 0")
	}
	if ConsumerHz%BroadcastHz != 0 {
		t.Fatalf("ConsumerHz %% BroadcastHz != 0 (%d %% %d)", ConsumerHz, BroadcastHz)
	}
	if SimTickHz < ConsumerHz {
		t.Fatalf("simulation must tick at least as fast as the consumer loop")
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	b, err := Encode(MsgInput, Input{Right: true, Jump: true})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.T != MsgInput {
		t.Fatalf("envelope type = %q, want %q", env.T, MsgInput)
	}
	in, err := DecodePayload[Input](env)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if !in.Right || !in.Jump || in.Left || in.Special {
		t.Fatalf("payload = %+v", in)
	}
}

func TestEncodeRejectsBadInput(t *testing.T) {
	if _, err := Encode("", Input{}); err == nil {
		t.Fatalf("expected error for empty type")
	}
	if _, err := Encode(MsgInput, nil); err == nil {
		t.Fatalf("expected error for nil payload")
	}
	if _, err := DecodeEnvelope(nil); err == nil {
		t.Fatalf("expected error for empty envelope bytes")
	}
}
