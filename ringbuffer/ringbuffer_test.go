package ringbuffer

import "testing"

func TestEnqueueDequeueOrder(t *testing.T) {
	b := New(4)

	for _, v := range []byte{1, 2, 3} {
		if !b.Enqueue(v) {
			t.Fatalf("Enqueue(%d) failed unexpectedly", v)
		}
	}

	for _, want := range []byte{1, 2, 3} {
		got, ok := b.Dequeue()
		if !ok || got != want {
			t.Fatalf("Dequeue() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}

	if !b.Empty() {
		t.Errorf("expected buffer to be empty")
	}
}

func TestEnqueueFullRejects(t *testing.T) {
	b := New(2)
	b.Enqueue(1)
	b.Enqueue(2)

	if !b.Full() {
		t.Fatalf("expected buffer to report full")
	}
	if b.Enqueue(3) {
		t.Fatalf("Enqueue on a full buffer should fail")
	}
}

func TestEnqueueOverwriteDiscardsOldest(t *testing.T) {
	b := New(2)
	b.Enqueue(1)
	b.Enqueue(2)

	b.EnqueueOverwrite(3)

	first, _ := b.Dequeue()
	second, _ := b.Dequeue()

	if first != 2 || second != 3 {
		t.Errorf("got (%d, %d), want (2, 3)", first, second)
	}
}

func TestDequeueEmptyFails(t *testing.T) {
	b := New(2)
	if _, ok := b.Dequeue(); ok {
		t.Errorf("Dequeue on an empty buffer should fail")
	}
}
