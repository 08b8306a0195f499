package app

import "testing"

func TestRegistry_FirstWins(t *testing.T) {
	r := NewRegistry[int]()
	if !r.Add("a", 1) || !r.Add("b", 2) {
		t.Fatal("Add() rejected a new key")
	}
	if r.Add("a", 3) {
		t.Error("Add() accepted a duplicate key")
	}

	if v, _ := r.Get("a"); v != 1 {
		t.Errorf("Get(a) = %d, want 1", v)
	}
	if got := r.Values(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Values() = %v, want [1 2]", got)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestRegistry_NilIsEmpty(t *testing.T) {
	var r *Registry[string]
	if r.Len() != 0 || r.Values() != nil {
		t.Error("nil registry is not empty")
	}
}
