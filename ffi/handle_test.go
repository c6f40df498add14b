package ffi

import "testing"

type closer struct {
	closed int
}

func (c *closer) Close() error {
	c.closed++
	return nil
}

func TestHandleLifecycle(t *testing.T) {

	l := New()
	c := &closer{}

	h := newHandle(c)
	if h == 0 {
		t.Fatal("got the null handle")
	}

	got, ok := resolve[*closer](h)
	if !ok || got != c {
		t.Fatal("handle does not resolve to its value")
	}

	if _, ok := resolve[*decoderSession](h); ok {
		t.Fatal("handle resolved as a different kind")
	}

	if !release[*closer](l, "test", h) {
		t.Fatal("release failed")
	}
	if c.closed != 1 {
		t.Fatalf("value closed %d times, want 1", c.closed)
	}

	if _, ok := resolve[*closer](h); ok {
		t.Fatal("released handle still resolves")
	}

	// a second release is detected and ignored
	if release[*closer](l, "test", h) {
		t.Fatal("double release reported success")
	}
	if c.closed != 1 {
		t.Fatalf("value closed %d times, want 1", c.closed)
	}
}

func TestNullHandle(t *testing.T) {

	if _, ok := resolve[*closer](0); ok {
		t.Fatal("null handle resolved")
	}
	if !release[*closer](New(), "test", 0) {
		t.Fatal("releasing the null handle must be a no-op")
	}
}

func TestReleaseWrongKind(t *testing.T) {

	l := New()
	c := &closer{}
	h := newHandle(c)

	if release[*decoderSession](l, "test", h) {
		t.Fatal("released a handle of another kind")
	}
	if _, ok := resolve[*closer](h); !ok {
		t.Fatal("handle lost after a wrong-kind release")
	}

	release[*closer](l, "test", h)
}

func TestUnknownHandle(t *testing.T) {
	if _, ok := resolve[*closer](Handle(^uintptr(0))); ok {
		t.Fatal("unknown handle resolved")
	}
}
