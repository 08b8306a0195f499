package app

import (
	"context"
	"sync"
	"testing"
)

func TestSignal_FireBroadcasts(t *testing.T) {
	s := NewSignal(context.Background())
	if s.Fired() {
		t.Fatal("Fired() = true before Fire")
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-s.Done()
		}()
	}

	s.Fire()
	wg.Wait()

	if !s.Fired() {
		t.Error("Fired() = false after Fire")
	}
}

func TestSignal_FireIsIdempotent(t *testing.T) {
	s := NewSignal(context.Background())
	for i := 0; i < 3; i++ {
		s.Fire()
	}
	if s.Context().Err() != context.Canceled {
		t.Errorf("Context().Err() = %v, want context.Canceled", s.Context().Err())
	}
}

func TestSignal_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s := NewSignal(parent)
	cancel()
	<-s.Done()
	if !s.Fired() {
		t.Error("Fired() = false after parent cancel")
	}
}
