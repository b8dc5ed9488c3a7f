package cache

import "testing"

func TestLRU_GetSetEvict(t *testing.T) {
	c := NewLRU(2)
	if v, ok := c.Get("a"); ok || v != nil {
		t.Fatal("expected miss")
	}
	c.Set("a", []float32{1, 2, 3})
	v, ok := c.Get("a")
	if !ok || len(v) != 3 || v[0] != 1 {
		t.Errorf("Get: got %v, %v", v, ok)
	}
	c.Set("b", []float32{4, 5})
	c.Set("c", []float32{6}) // evicts a
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected b to remain")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be present")
	}
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
}

func TestLRU_GetRefreshesRecency(t *testing.T) {
	c := NewLRU(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})
	c.Get("a")               // a is now most recent
	c.Set("c", []float32{3}) // evicts b
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry evicted")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
}

func TestLRU_SetExistingUpdates(t *testing.T) {
	c := NewLRU(2)
	c.Set("a", []float32{1})
	c.Set("a", []float32{9})
	v, _ := c.Get("a")
	if v[0] != 9 {
		t.Errorf("got %v, want updated value", v)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}
