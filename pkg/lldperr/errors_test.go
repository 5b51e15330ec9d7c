package lldperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesOnKindOnly(t *testing.T) {
	cause := errors.New("boom")
	err := OnInterface(L2IOError, "eth0", cause)

	if !errors.Is(err, New(L2IOError, nil)) {
		t.Fatalf("expected errors.Is to match on kind alone")
	}
	if errors.Is(err, New(StoreCorrupt, nil)) {
		t.Fatalf("expected errors.Is to reject a different kind")
	}
}

func TestKindOfUnwrapsWrappedError(t *testing.T) {
	inner := New(MalformedFrame, errors.New("short TLV"))
	wrapped := errors.New("decode failed: " + inner.Error())

	if _, ok := KindOf(wrapped); ok {
		t.Fatalf("plain wrapped string should not resolve a kind")
	}

	kind, ok := KindOf(inner)
	if !ok || kind != MalformedFrame {
		t.Fatalf("expected MalformedFrame, got %v (ok=%v)", kind, ok)
	}

	kind, ok = KindOf(fmt.Errorf("decode failed: %w", inner))
	if !ok || kind != MalformedFrame {
		t.Fatalf("expected MalformedFrame through %%w wrapping, got %v (ok=%v)", kind, ok)
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{Newf(ConfigInvalid, "bad LLDP_TTL"), 1},
		{Newf(WorkerAlreadyRunning, "pid 123 alive"), 1},
		{Newf(WorkerNotRunning, "no pid file"), 1},
		{Newf(PrivilegeDenied, "raw socket"), 3},
		{Newf(L2IOError, "send failed"), 2},
		{Newf(StoreCorrupt, "bad json"), 2},
		{errors.New("unrelated"), 2},
	}
	for _, c := range cases {
		if got := ExitCode(c.err); got != c.want {
			t.Errorf("ExitCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
